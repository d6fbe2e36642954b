package soft

import (
	"encoding/binary"
	"fmt"

	"github.com/micycle8778/mm3ds/engine/core"
)

// The compressed-texture container, as the external compressor emits
// it:
//
//	u16 subTextureCount
//	u8  widthLog2-3 (bits 0..2) | heightLog2-3 (bits 3..5) | type (bit 6)
//	u8  pixel format
//	u8  mipmap levels
//	subTextureCount × 12-byte sub-texture entries
//	texture data, wrapped in a compression header (raw or LZ11)
//
// Only the top-level image is decoded; sub-texture atlas entries and
// mipmaps beyond level 0 are skipped.
const (
	t3xHeaderSize  = 5
	t3xSubTexSize  = 12
	t3xMinDimLog2  = 3
	t3xMaxDim      = 1024
	compressionRaw = 0x00
	compressionLZ1 = 0x11
)

// Pixel format codes used by the hardware.
const (
	formatRGBA8  = 0
	formatRGB8   = 1
	formatETC1   = 12
	formatETC1A4 = 13
)

// decodeT3X parses a container and returns RGBA8 pixels, row-major,
// top row first.
func decodeT3X(container []byte) (pixels []byte, width, height int, err error) {
	if len(container) < t3xHeaderSize {
		return nil, 0, 0, fmt.Errorf("%w: container shorter than its header", core.ErrDecode)
	}

	subCount := int(binary.LittleEndian.Uint16(container[0:2]))
	dims := container[2]
	format := container[3]

	width = 1 << (int(dims&0x7) + t3xMinDimLog2)
	height = 1 << (int(dims>>3&0x7) + t3xMinDimLog2)
	if width > t3xMaxDim || height > t3xMaxDim {
		return nil, 0, 0, fmt.Errorf("%w: %dx%d exceeds the hardware limit", core.ErrDecode, width, height)
	}

	body := container[t3xHeaderSize:]
	if len(body) < subCount*t3xSubTexSize {
		return nil, 0, 0, fmt.Errorf("%w: truncated sub-texture table", core.ErrDecode)
	}
	body = body[subCount*t3xSubTexSize:]

	data, err := decompress(body)
	if err != nil {
		return nil, 0, 0, err
	}

	switch format {
	case formatRGBA8:
		pixels, err = untile(data, width, height, 4)
	case formatRGB8:
		pixels, err = untile(data, width, height, 3)
	case formatETC1:
		pixels, err = decodeETC1(data, width, height, false)
	case formatETC1A4:
		pixels, err = decodeETC1(data, width, height, true)
	default:
		err = fmt.Errorf("%w: unsupported pixel format %d", core.ErrDecode, format)
	}
	if err != nil {
		return nil, 0, 0, err
	}
	return pixels, width, height, nil
}

// decompress unwraps the data section's compression header: a type
// byte followed by the 24-bit decompressed size (or a 32-bit size when
// the 24-bit field is zero).
func decompress(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: missing compression header", core.ErrDecode)
	}
	kind := data[0]
	size := int(data[1]) | int(data[2])<<8 | int(data[3])<<16
	data = data[4:]
	if size == 0 {
		if len(data) < 4 {
			return nil, fmt.Errorf("%w: missing extended size", core.ErrDecode)
		}
		size = int(binary.LittleEndian.Uint32(data))
		data = data[4:]
	}

	switch kind {
	case compressionRaw:
		if len(data) < size {
			return nil, fmt.Errorf("%w: raw data shorter than declared size", core.ErrDecode)
		}
		return data[:size], nil
	case compressionLZ1:
		return lz11Decompress(data, size)
	default:
		return nil, fmt.Errorf("%w: unsupported compression type %#x", core.ErrDecode, kind)
	}
}

// lz11Decompress expands an LZ11 stream to exactly size bytes.
func lz11Decompress(src []byte, size int) ([]byte, error) {
	dst := make([]byte, 0, size)
	pos := 0

	corrupt := func() ([]byte, error) {
		return nil, fmt.Errorf("%w: corrupt LZ11 stream", core.ErrDecode)
	}

	for len(dst) < size {
		if pos >= len(src) {
			return corrupt()
		}
		flags := src[pos]
		pos++

		for bit := 7; bit >= 0 && len(dst) < size; bit-- {
			if flags&(1<<bit) == 0 {
				if pos >= len(src) {
					return corrupt()
				}
				dst = append(dst, src[pos])
				pos++
				continue
			}

			if pos+1 >= len(src) {
				return corrupt()
			}
			b1, b2 := int(src[pos]), int(src[pos+1])
			var length, disp int
			switch b1 >> 4 {
			case 0:
				if pos+2 >= len(src) {
					return corrupt()
				}
				b3 := int(src[pos+2])
				length = ((b1&0xF)<<4 | b2>>4) + 0x11
				disp = ((b2&0xF)<<8 | b3) + 1
				pos += 3
			case 1:
				if pos+3 >= len(src) {
					return corrupt()
				}
				b3, b4 := int(src[pos+2]), int(src[pos+3])
				length = ((b1&0xF)<<12 | b2<<4 | b3>>4) + 0x111
				disp = ((b3&0xF)<<8 | b4) + 1
				pos += 4
			default:
				length = (b1 >> 4) + 1
				disp = ((b1&0xF)<<8 | b2) + 1
				pos += 2
			}

			if disp > len(dst) {
				return corrupt()
			}
			for i := 0; i < length && len(dst) < size; i++ {
				dst = append(dst, dst[len(dst)-disp])
			}
		}
	}
	return dst, nil
}

// mortonOffset maps an (x, y) position inside an 8×8 tile to its
// Z-order index.
func mortonOffset(x, y int) int {
	return (x & 1) | (y&1)<<1 | (x&2)<<1 | (y&2)<<2 | (x&4)<<2 | (y&4)<<3
}

// untile converts 8×8 Morton-tiled raw pixel data to linear RGBA8.
// The hardware stores rows bottom-up; output is top-down.
func untile(data []byte, width, height, bpp int) ([]byte, error) {
	if width%8 != 0 || height%8 != 0 {
		return nil, fmt.Errorf("%w: %dx%d is not tileable", core.ErrDecode, width, height)
	}
	if len(data) < width*height*bpp {
		return nil, fmt.Errorf("%w: pixel data shorter than %dx%d", core.ErrDecode, width, height)
	}

	out := make([]byte, width*height*4)
	tilesPerRow := width / 8
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tile := (y/8)*tilesPerRow + x/8
			src := (tile*64 + mortonOffset(x%8, y%8)) * bpp

			dst := ((height-1-y)*width + x) * 4
			switch bpp {
			case 4:
				// stored ABGR
				out[dst+0] = data[src+3]
				out[dst+1] = data[src+2]
				out[dst+2] = data[src+1]
				out[dst+3] = data[src+0]
			case 3:
				// stored BGR
				out[dst+0] = data[src+2]
				out[dst+1] = data[src+1]
				out[dst+2] = data[src+0]
				out[dst+3] = 0xFF
			}
		}
	}
	return out, nil
}
