package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/yardplan/pkg/geometry"
)

// ErrEmpty is returned for input that holds no STL data at all
var ErrEmpty = errors.New("stl: empty input")

const (
	binaryHeaderSize   = 80
	binaryTriangleSize = 50
)

// Parse reads an STL file and returns a Model
func Parse(filename string) (*Model, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes decodes an ASCII or binary STL document. Binary files whose
// header happens to start with "solid" are recognised by their size.
func ParseBytes(data []byte) (*Model, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if bytes.HasPrefix(data, []byte("solid")) && !looksBinary(data) {
		return parseASCII(bytes.NewReader(data))
	}
	return parseBinary(bytes.NewReader(data))
}

func looksBinary(data []byte) bool {
	if len(data) < binaryHeaderSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(data[binaryHeaderSize : binaryHeaderSize+4])
	return len(data) == binaryHeaderSize+4+int(count)*binaryTriangleSize
}

func parseASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := NewModel("")

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				v, err := parseVector(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("facet normal: %w", err)
				}
				currentNormal = v
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("vertex with %d coordinates", len(fields)-1)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("vertex: %w", err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) == 3 {
				model.AddTriangle(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			}
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}
	return model, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// binaryFacet mirrors the 50-byte on-disk triangle record
type binaryFacet struct {
	Normal     [3]float32
	V1, V2, V3 [3]float32
	Attribute  uint16
}

func parseBinary(reader io.Reader) (*Model, error) {
	model := NewModel("")

	header := make([]byte, binaryHeaderSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if name := string(bytes.TrimRight(header, "\x00 ")); name != "" {
		model.Name = name
	}

	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	for i := uint32(0); i < triangleCount; i++ {
		var f binaryFacet
		if err := binary.Read(reader, binary.LittleEndian, &f); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}
		model.AddTriangle(geometry.NewTriangle(vec(f.Normal), vec(f.V1), vec(f.V2), vec(f.V3)))
	}

	return model, nil
}

func vec(c [3]float32) geometry.Vector3 {
	return geometry.NewVector3(float64(c[0]), float64(c[1]), float64(c[2]))
}

// WriteBinary encodes the model in binary STL form
func WriteBinary(w io.Writer, m *Model) error {
	header := make([]byte, binaryHeaderSize)
	copy(header, m.Name)
	if _, err := w.Write(header); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return err
	}
	for _, t := range m.Triangles {
		f := binaryFacet{Normal: f32(t.Normal), V1: f32(t.V1), V2: f32(t.V2), V3: f32(t.V3)}
		if err := binary.Write(w, binary.LittleEndian, &f); err != nil {
			return err
		}
	}
	return nil
}

func f32(v geometry.Vector3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
