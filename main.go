package main

import "github.com/philipparndt/yardplan/cmd"

func main() {
	cmd.Execute()
}
