package scene

// Handle is the opaque pick identifier attached to a rendered node
type Handle uint32

// NoHandle is never issued
const NoHandle Handle = 0

// PartVertex marks nodes that are edit handles rather than entity geometry
const PartVertex = "vertex"

// Tag describes what a rendered node belongs to
type Tag struct {
	Kind    Kind
	OwnerID string
	// Part distinguishes sub-nodes such as "post", "slat" or PartVertex
	Part string
	// Vertex is the point index for PartVertex tags
	Vertex int
}

// Registry maps pick handles to the entity they belong to, so a hit on any
// nested node resolves with one lookup.
type Registry struct {
	next  Handle
	tags  map[Handle]Tag
	owned map[string][]Handle
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		tags:  make(map[Handle]Tag),
		owned: make(map[string][]Handle),
	}
}

// Register issues a new handle for tag
func (r *Registry) Register(tag Tag) Handle {
	r.next++
	h := r.next
	r.tags[h] = tag
	r.owned[tag.OwnerID] = append(r.owned[tag.OwnerID], h)
	return h
}

// Resolve returns the tag of a handle
func (r *Registry) Resolve(h Handle) (Tag, bool) {
	t, ok := r.tags[h]
	return t, ok
}

// Handles returns the handles registered for an owner
func (r *Registry) Handles(ownerID string) []Handle {
	return append([]Handle(nil), r.owned[ownerID]...)
}

// Release forgets every handle owned by ownerID
func (r *Registry) Release(ownerID string) {
	for _, h := range r.owned[ownerID] {
		delete(r.tags, h)
	}
	delete(r.owned, ownerID)
}

// ReleaseVertices forgets only the vertex handles of ownerID
func (r *Registry) ReleaseVertices(ownerID string) {
	kept := r.owned[ownerID][:0]
	for _, h := range r.owned[ownerID] {
		if r.tags[h].Part == PartVertex {
			delete(r.tags, h)
			continue
		}
		kept = append(kept, h)
	}
	if len(kept) == 0 {
		delete(r.owned, ownerID)
		return
	}
	r.owned[ownerID] = kept
}

// Len returns the number of live handles
func (r *Registry) Len() int {
	return len(r.tags)
}
