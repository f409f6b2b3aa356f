package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression defines the payload compression algorithm.
type Compression uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return CompressionNone, fmt.Errorf("unknown compression %q", s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxPayloadSize))
	return dec
}

const (
	blockHeaderSize = 8

	// MaxPayloadSize bounds the decoded payload of a snapshot.
	MaxPayloadSize = 64 << 20

	// maxLZ4Ratio is the largest expansion an LZ4 block can encode.
	maxLZ4Ratio = 255
)

// compressBlock returns data framed with a block header. Data that does not
// shrink below 90% is stored uncompressed.
func compressBlock(data []byte, c Compression) ([]byte, error) {
	if len(data) > MaxPayloadSize {
		return nil, fmt.Errorf("payload size %d exceeds limit %d", len(data), MaxPayloadSize)
	}

	var (
		compressed []byte
		err        error
	)

	switch c {
	case CompressionNone:
	case CompressionLZ4:
		compressed, err = compressLZ4(data)
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("unsupported compression %s", c)
	}
	if err != nil {
		return nil, err
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		copy(out[blockHeaderSize:], data)
		return out, nil
	}

	out := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[blockHeaderSize:], compressed)
	return out, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, err
	}
	// n == 0 means incompressible.
	return buf[:n], nil
}

// decompressBlock reverses compressBlock.
func decompressBlock(block []byte, c Compression) ([]byte, error) {
	if len(block) < blockHeaderSize {
		return nil, errors.New("block too small for header")
	}

	rawSize := binary.LittleEndian.Uint32(block[0:])
	packedSize := binary.LittleEndian.Uint32(block[4:])
	body := block[blockHeaderSize:]

	if rawSize > MaxPayloadSize {
		return nil, fmt.Errorf("payload size %d exceeds limit %d", rawSize, MaxPayloadSize)
	}

	if packedSize == 0 {
		if uint32(len(body)) < rawSize {
			return nil, errors.New("block data too small")
		}
		return body[:rawSize], nil
	}
	if uint32(len(body)) < packedSize {
		return nil, errors.New("compressed block data too small")
	}
	body = body[:packedSize]

	switch c {
	case CompressionLZ4:
		if uint64(rawSize) > uint64(packedSize)*maxLZ4Ratio {
			return nil, fmt.Errorf("payload size %d not reachable from %d packed bytes", rawSize, packedSize)
		}
		out := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != rawSize {
			return nil, errors.New("decompressed size mismatch")
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		// The output grows as needed; the header size only sizes the first guess.
		out, err := dec.DecodeAll(body, make([]byte, 0, min(uint64(rawSize), uint64(packedSize)*maxLZ4Ratio)))
		if err != nil {
			return nil, err
		}
		if uint32(len(out)) != rawSize {
			return nil, errors.New("decompressed size mismatch")
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported compression %s", c)
	}
}
