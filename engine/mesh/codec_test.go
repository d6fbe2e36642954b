package mesh

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/micycle8778/mm3ds/engine/core"
	enginemath "github.com/micycle8778/mm3ds/engine/math"
)

func testVertices(n int) []Vertex {
	verts := make([]Vertex, n)
	for i := range verts {
		f := float32(i)
		verts[i] = Vertex{
			Position: enginemath.Vec3{X: f, Y: f + 0.5, Z: -f},
			UV:       enginemath.Vec2{X: f / 10, Y: 1 - f/10},
			Normal:   enginemath.Vec3{X: 0, Y: 0, Z: 1},
		}
	}
	return verts
}

func TestRoundTrip(t *testing.T) {
	cases := map[string][]Record{
		"no meshes": {},
		"empty mesh": {
			{Diffuse: enginemath.Vec4{X: 1, Y: 1, Z: 1, W: 1}},
		},
		"vertices only": {
			{Diffuse: enginemath.Vec4{X: 0.5}, Vertices: testVertices(3)},
		},
		"indexed with texture": {
			{
				Diffuse:  enginemath.Vec4{X: 0.1, Y: 0.2, Z: 0.3, W: 0.4},
				Vertices: testVertices(4),
				Indices:  []uint16{0, 1, 2, 2, 3, 0},
				Texture:  []byte{0xde, 0xad, 0xbe, 0xef},
			},
		},
		"several meshes": {
			{Diffuse: enginemath.Vec4{W: 1}, Vertices: testVertices(3), Indices: []uint16{0, 1, 2}},
			{Diffuse: enginemath.Vec4{X: 1}},
			{Diffuse: enginemath.Vec4{Y: 1}, Vertices: testVertices(6)},
		},
	}

	for name, records := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, records); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(got) != len(records) {
				t.Fatalf("decoded %d records, want %d", len(got), len(records))
			}
			for i := range records {
				if !reflect.DeepEqual(got[i], records[i]) {
					t.Errorf("record %d = %+v, want %+v", i, got[i], records[i])
				}
			}
		})
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, []Record{{Vertices: testVertices(3)}}); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	data[0] = 'X'

	_, err := Decode(bytes.NewReader(data))
	if !errors.Is(err, core.ErrFormat) {
		t.Fatalf("Decode() error = %v, want ErrFormat", err)
	}
}

func TestDecodeTruncationFailsWithIOError(t *testing.T) {
	var buf bytes.Buffer
	records := []Record{{
		Diffuse:  enginemath.Vec4{X: 0.1, Y: 0.2, Z: 0.3, W: 0.4},
		Vertices: testVertices(3),
		Indices:  []uint16{0, 1, 2},
		Texture:  []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}}
	if err := Encode(&buf, records); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	// Cut the stream at every offset past the magic; each one must be
	// a clean i/o failure, never a partial decode or an overread.
	for cut := 4; cut < len(data); cut++ {
		_, err := Decode(bytes.NewReader(data[:cut]))
		if !errors.Is(err, core.ErrIO) {
			t.Fatalf("cut at %d: error = %v, want ErrIO", cut, err)
		}
	}
}

func TestDecodeRejectsImpossibleVertexCount(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("MESH")
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	binary.Write(&buf, binary.LittleEndian, [4]float32{1, 1, 1, 1})
	binary.Write(&buf, binary.LittleEndian, uint32(70000))

	_, err := Decode(&buf)
	if !errors.Is(err, core.ErrFormat) {
		t.Fatalf("Decode() error = %v, want ErrFormat", err)
	}
}

func TestDecodeHugeDeclaredCountsFailCleanly(t *testing.T) {
	// A stream may declare any count; allocation must follow the bytes
	// that actually arrive, so these fail with ErrIO instead of
	// reserving gigabytes up front.
	header := func() *bytes.Buffer {
		var buf bytes.Buffer
		buf.WriteString("MESH")
		binary.Write(&buf, binary.LittleEndian, uint32(1))
		binary.Write(&buf, binary.LittleEndian, [4]float32{1, 1, 1, 1})
		binary.Write(&buf, binary.LittleEndian, uint32(0)) // no vertices
		return &buf
	}

	t.Run("indices", func(t *testing.T) {
		buf := header()
		binary.Write(buf, binary.LittleEndian, uint32(0xFFFFFFFF))
		buf.Write([]byte{1, 2, 3})
		if _, err := Decode(buf); !errors.Is(err, core.ErrIO) {
			t.Fatalf("Decode() error = %v, want ErrIO", err)
		}
	})
	t.Run("texture", func(t *testing.T) {
		buf := header()
		binary.Write(buf, binary.LittleEndian, uint32(0)) // no indices
		binary.Write(buf, binary.LittleEndian, uint32(0xFFFFFFFF))
		buf.Write([]byte{1, 2, 3})
		if _, err := Decode(buf); !errors.Is(err, core.ErrIO) {
			t.Fatalf("Decode() error = %v, want ErrIO", err)
		}
	})
}

func TestEncodeRefusesOversizedMesh(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, []Record{{Vertices: make([]Vertex, MaxVertices)}})
	if !errors.Is(err, core.ErrFormat) {
		t.Fatalf("Encode() error = %v, want ErrFormat", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("Encode() wrote %d bytes before refusing", buf.Len())
	}
}

// TestDecodeKnownStream pins the wire layout byte for byte.
func TestDecodeKnownStream(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("MESH")
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	binary.Write(&buf, binary.LittleEndian, [4]float32{0.1, 0.2, 0.3, 0.4})
	binary.Write(&buf, binary.LittleEndian, uint32(3))
	for i := 0; i < 3; i++ {
		binary.Write(&buf, binary.LittleEndian, [8]float32{float32(i), 0, 0, 0, 0, 0, 0, 1})
	}
	binary.Write(&buf, binary.LittleEndian, uint32(3))
	binary.Write(&buf, binary.LittleEndian, []uint16{0, 1, 2})
	binary.Write(&buf, binary.LittleEndian, uint32(0))

	records, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("decoded %d records, want 1", len(records))
	}
	rec := records[0]
	want := enginemath.Vec4{X: 0.1, Y: 0.2, Z: 0.3, W: 0.4}
	if rec.Diffuse != want {
		t.Errorf("diffuse = %+v, want %+v", rec.Diffuse, want)
	}
	if len(rec.Vertices) != 3 {
		t.Errorf("vertex count = %d, want 3", len(rec.Vertices))
	}
	for i, v := range rec.Vertices {
		if v.Position.X != float32(i) || v.Normal.Z != 1 {
			t.Errorf("vertex %d = %+v", i, v)
		}
	}
	if !reflect.DeepEqual(rec.Indices, []uint16{0, 1, 2}) {
		t.Errorf("indices = %v, want [0 1 2]", rec.Indices)
	}
	if rec.Texture != nil {
		t.Errorf("texture = %v, want none", rec.Texture)
	}
}

func TestVertexWireSize(t *testing.T) {
	if size := binary.Size(Vertex{}); size != VertexSize {
		t.Fatalf("wire size of Vertex = %d, want %d", size, VertexSize)
	}
	if MaxVertices != math.MaxUint16+1 {
		t.Fatalf("MaxVertices = %d, want %d", MaxVertices, math.MaxUint16+1)
	}
}
