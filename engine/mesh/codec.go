package mesh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/micycle8778/mm3ds/engine/core"
)

// magic prefixes every mesh file. No version tag follows: the format
// is a private contract between the exporter and the loader.
var magic = [4]byte{'M', 'E', 'S', 'H'}

func read(r io.Reader, v interface{}) error {
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("%w: %v", core.ErrIO, err)
	}
	return nil
}

// Decode reads a whole mesh file stream. It never reads past a
// declared count; a stream cut off inside one fails with ErrIO, a
// stream that does not start with the magic fails with ErrFormat
// before anything else is consumed.
func Decode(r io.Reader) ([]Record, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, fmt.Errorf("%w: reading magic: %v", core.ErrIO, err)
	}
	if m != magic {
		return nil, fmt.Errorf("%w: bad magic %q", core.ErrFormat, m[:])
	}

	var count uint32
	if err := read(r, &count); err != nil {
		return nil, err
	}

	// Trust the count for iteration, not for allocation.
	records := make([]Record, 0, min(count, 1024))
	for i := uint32(0); i < count; i++ {
		rec, err := decodeRecord(r)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRecord(r io.Reader) (Record, error) {
	var rec Record

	if err := read(r, &rec.Diffuse); err != nil {
		return rec, err
	}

	var vertexCount uint32
	if err := read(r, &vertexCount); err != nil {
		return rec, err
	}
	if vertexCount > MaxVertices {
		return rec, fmt.Errorf("%w: vertex count %d cannot be indexed by u16", core.ErrFormat, vertexCount)
	}
	if vertexCount > 0 {
		rec.Vertices = make([]Vertex, vertexCount)
		if err := read(r, rec.Vertices); err != nil {
			return rec, err
		}
	}

	var indexCount uint32
	if err := read(r, &indexCount); err != nil {
		return rec, err
	}
	if indexCount > 0 {
		indices, err := readIndices(r, indexCount)
		if err != nil {
			return rec, err
		}
		rec.Indices = indices
	}

	var textureLen uint32
	if err := read(r, &textureLen); err != nil {
		return rec, err
	}
	if textureLen > 0 {
		var tex bytes.Buffer
		if _, err := io.CopyN(&tex, r, int64(textureLen)); err != nil {
			return rec, fmt.Errorf("%w: reading texture container: %v", core.ErrIO, err)
		}
		rec.Texture = tex.Bytes()
	}

	return rec, nil
}

// allocChunk bounds how far ahead of the payload any declared count
// may allocate.
const allocChunk = 4096

// readIndices trusts the count for iteration, not for allocation; a
// truncated stream fails with ErrIO long before the declared size is
// reserved.
func readIndices(r io.Reader, count uint32) ([]uint16, error) {
	out := make([]uint16, 0, min(count, allocChunk))
	buf := make([]uint16, min(count, allocChunk))
	for count > 0 {
		n := min(count, allocChunk)
		if err := read(r, buf[:n]); err != nil {
			return nil, err
		}
		out = append(out, buf[:n]...)
		count -= n
	}
	return out, nil
}

func write(w io.Writer, v interface{}) error {
	if err := binary.Write(w, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("%w: %v", core.ErrIO, err)
	}
	return nil
}

// Encode writes records as a mesh file stream, counts before payloads.
// A record with more than 65535 vertices is refused before any byte is
// written.
func Encode(w io.Writer, records []Record) error {
	for i, rec := range records {
		if len(rec.Vertices) > MaxVertices-1 {
			return fmt.Errorf("%w: mesh %d has %d vertices", core.ErrFormat, i, len(rec.Vertices))
		}
	}

	if _, err := w.Write(magic[:]); err != nil {
		return fmt.Errorf("%w: %v", core.ErrIO, err)
	}
	if err := write(w, uint32(len(records))); err != nil {
		return err
	}

	for _, rec := range records {
		if err := write(w, rec.Diffuse); err != nil {
			return err
		}
		if err := write(w, uint32(len(rec.Vertices))); err != nil {
			return err
		}
		if err := write(w, rec.Vertices); err != nil {
			return err
		}
		if err := write(w, uint32(len(rec.Indices))); err != nil {
			return err
		}
		if err := write(w, rec.Indices); err != nil {
			return err
		}
		if err := write(w, uint32(len(rec.Texture))); err != nil {
			return err
		}
		if len(rec.Texture) > 0 {
			if _, err := w.Write(rec.Texture); err != nil {
				return fmt.Errorf("%w: %v", core.ErrIO, err)
			}
		}
	}
	return nil
}
