package renderer

import (
	"testing"
)

func TestRegistryHandlesIncreaseAndStayValid(t *testing.T) {
	b := &fakeBackend{}
	reg := NewRegistry(b)

	const n = 16
	assets := make([]*MeshAsset, n)
	handles := make([]MeshId, n)
	for i := 0; i < n; i++ {
		assets[i] = newTestAsset(t, b, nil)
		handles[i] = reg.Register(assets[i])
	}

	for i := 1; i < n; i++ {
		if handles[i] <= handles[i-1] {
			t.Fatalf("handle %d (=%d) not greater than handle %d (=%d)", i, handles[i], i-1, handles[i-1])
		}
	}

	// Every earlier handle still resolves to its original asset after
	// later registrations.
	for i, h := range handles {
		got, err := reg.Get(h)
		if err != nil {
			t.Fatalf("Get(%d) error = %v", h, err)
		}
		if got != assets[i] {
			t.Fatalf("Get(%d) resolved to a different asset", h)
		}
	}
}

func TestRegistryRejectsUnknownHandle(t *testing.T) {
	b := &fakeBackend{}
	reg := NewRegistry(b)
	reg.Register(newTestAsset(t, b, nil))

	if _, err := reg.Get(MeshId(1)); err == nil {
		t.Error("Get(1) = nil error, want unknown handle")
	}
	if _, err := reg.Get(MeshId(-1)); err == nil {
		t.Error("Get(-1) = nil error, want unknown handle")
	}
}

func TestRegistryShutdownReleasesOnce(t *testing.T) {
	b := &fakeBackend{}
	reg := NewRegistry(b)
	reg.Register(newTestAsset(t, b, nil))
	reg.Register(newTestAsset(t, b, []byte{1}))

	reg.Shutdown()
	reg.Shutdown()

	if b.destroyedBuffers != 2 {
		t.Errorf("destroyed %d vertex buffers, want 2", b.destroyedBuffers)
	}
	if b.destroyedTextures != 1 {
		t.Errorf("destroyed %d textures, want 1", b.destroyedTextures)
	}
}
