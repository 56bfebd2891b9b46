package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	post := r.Register(Tag{Kind: KindFence, OwnerID: "f1", Part: "post"})
	vertex := r.Register(Tag{Kind: KindFence, OwnerID: "f1", Part: PartVertex, Vertex: 2})
	other := r.Register(Tag{Kind: KindModel, OwnerID: "m1"})

	tag, ok := r.Resolve(vertex)
	assert.True(t, ok)
	assert.Equal(t, 2, tag.Vertex)
	assert.NotEqual(t, NoHandle, post)

	r.ReleaseVertices("f1")
	_, ok = r.Resolve(vertex)
	assert.False(t, ok)
	_, ok = r.Resolve(post)
	assert.True(t, ok)

	r.Release("f1")
	assert.Empty(t, r.Handles("f1"))
	assert.Equal(t, 1, r.Len())

	tag, _ = r.Resolve(other)
	assert.Equal(t, "m1", tag.OwnerID)
}
