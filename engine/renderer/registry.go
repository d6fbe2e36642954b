package renderer

import (
	"fmt"
)

// MeshId is a stable handle to a registered asset: an index into the
// registry, never reused and never invalidated by later registrations.
type MeshId int

// Registry is the single owner of every loaded mesh asset for the life
// of the process. Append-only; there is no removal. It is mutated only
// from the engine's single logical thread; a multi-threaded host must
// serialize Register behind one writer.
type Registry struct {
	backend Backend
	assets  []*MeshAsset
	down    bool
}

func NewRegistry(b Backend) *Registry {
	return &Registry{backend: b}
}

// Register appends the asset and returns its handle. O(1) amortized;
// existing entries never relocate, so earlier handles stay valid.
func (r *Registry) Register(a *MeshAsset) MeshId {
	r.assets = append(r.assets, a)
	return MeshId(len(r.assets) - 1)
}

func (r *Registry) Get(id MeshId) (*MeshAsset, error) {
	if id < 0 || int(id) >= len(r.assets) {
		return nil, fmt.Errorf("unknown mesh handle %d", id)
	}
	return r.assets[id], nil
}

// Len reports how many assets have been registered.
func (r *Registry) Len() int {
	return len(r.assets)
}

// Shutdown releases every owned hardware resource exactly once.
// Handles are invalid afterwards.
func (r *Registry) Shutdown() {
	if r.down {
		return
	}
	r.down = true
	for _, a := range r.assets {
		a.destroy(r.backend)
	}
	r.assets = nil
}
