package renderer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/micycle8778/mm3ds/engine/core"
	"github.com/micycle8778/mm3ds/engine/math"
	"github.com/micycle8778/mm3ds/engine/mesh"
)

func encodeStream(t *testing.T, records []mesh.Record) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := mesh.Encode(&buf, records); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestLoadMeshesBuildsAssetsInFileOrder(t *testing.T) {
	b := &fakeBackend{}
	data := encodeStream(t, []mesh.Record{
		{
			Diffuse:  math.Vec4{X: 0.1, Y: 0.2, Z: 0.3, W: 0.4},
			Vertices: triangleVertices(),
			Indices:  []uint16{0, 1, 2},
		},
		{
			Diffuse:  math.Vec4{X: 1, Y: 1, Z: 1, W: 1},
			Vertices: triangleVertices(),
			Texture:  []byte{9, 9, 9},
		},
	})

	assets, err := LoadMeshes(b, data)
	if err != nil {
		t.Fatalf("LoadMeshes() error = %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("loaded %d assets, want 2", len(assets))
	}

	if !assets[0].Indexed() || assets[0].HasTexture() {
		t.Errorf("asset 0: indexed=%v textured=%v, want indexed, untextured", assets[0].Indexed(), assets[0].HasTexture())
	}
	if assets[1].Indexed() || !assets[1].HasTexture() {
		t.Errorf("asset 1: indexed=%v textured=%v, want unindexed, textured", assets[1].Indexed(), assets[1].HasTexture())
	}
	want := math.Vec4{X: 0.1, Y: 0.2, Z: 0.3, W: 0.4}
	if assets[0].Material.Diffuse != want {
		t.Errorf("asset 0 diffuse = %+v, want %+v", assets[0].Material.Diffuse, want)
	}
	if assets[0].VertexCount() != 3 {
		t.Errorf("asset 0 vertex count = %d, want 3", assets[0].VertexCount())
	}
}

func TestLoadMeshesSurfacesCodecErrors(t *testing.T) {
	b := &fakeBackend{}

	if _, err := LoadMeshes(b, []byte("MUSH")); !errors.Is(err, core.ErrFormat) {
		t.Errorf("bad magic: error = %v, want ErrFormat", err)
	}

	data := encodeStream(t, []mesh.Record{{Vertices: triangleVertices()}})
	if _, err := LoadMeshes(b, data[:len(data)-8]); !errors.Is(err, core.ErrIO) {
		t.Errorf("truncated stream: error = %v, want ErrIO", err)
	}
}

func TestLoadMeshesRollsBackOnTextureFailure(t *testing.T) {
	b := &fakeBackend{failImport: true}
	data := encodeStream(t, []mesh.Record{
		{Vertices: triangleVertices()},
		{Vertices: triangleVertices(), Texture: []byte{1, 2, 3}},
	})

	_, err := LoadMeshes(b, data)
	if !errors.Is(err, core.ErrDecode) {
		t.Fatalf("LoadMeshes() error = %v, want ErrDecode", err)
	}
	// Both the failing mesh's storage and the already-built asset must
	// have been released.
	if b.destroyedBuffers != 2 {
		t.Errorf("destroyed %d vertex buffers, want 2", b.destroyedBuffers)
	}
}
