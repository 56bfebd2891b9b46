package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFullVersion(t *testing.T) {
	oldV, oldC, oldD := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = oldV, oldC, oldD }()

	Version, GitCommit, BuildDate = "v1.2.0", "unknown", "unknown"
	assert.Equal(t, "v1.2.0", GetFullVersion())

	GitCommit, BuildDate = "abc123", "2026-01-02"
	assert.Equal(t, "v1.2.0 (abc123, 2026-01-02)", GetFullVersion())
}
