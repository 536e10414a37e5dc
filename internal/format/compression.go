package format

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/clubcard/internal/conv"
)

// Compression identifies the algorithm applied to a frame payload.
type Compression uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone Compression = 0
	// CompressionLZ4 applies LZ4 block compression.
	CompressionLZ4 Compression = 1
	// CompressionZSTD applies ZSTD compression.
	CompressionZSTD Compression = 2
)

// String returns the name accepted by ParseCompression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name. The empty string means none.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
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
	enc, _ := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithEncoderConcurrency(1),
	)
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return dec
}

const blockHeaderSize = 8

// Compress compresses data with c. The result carries an 8 byte header
// unless c is CompressionNone. Payloads that do not shrink are stored raw
// behind the header, marked by a zero compressed size.
func Compress(data []byte, c Compression) ([]byte, error) {
	if c == CompressionNone {
		return data, nil
	}
	size, err := conv.IntToUint32(len(data))
	if err != nil {
		return nil, err
	}

	var compressed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}

	if len(compressed) == 0 || len(compressed) >= len(data) {
		out := make([]byte, blockHeaderSize, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], size)
		return append(out, data...), nil
	}

	out := make([]byte, blockHeaderSize, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], size)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	return append(out, compressed...), nil
}

// Decompress reverses Compress.
func Decompress(data []byte, c Compression) ([]byte, error) {
	if c == CompressionNone {
		return data, nil
	}
	if c != CompressionLZ4 && c != CompressionZSTD {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
	if len(data) < blockHeaderSize {
		return nil, fmt.Errorf("%w: block header", ErrTruncated)
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[0:])
	compressedSize := binary.LittleEndian.Uint32(data[4:])
	body := data[blockHeaderSize:]

	if compressedSize == 0 {
		if uint32(len(body)) < uncompressedSize {
			return nil, fmt.Errorf("%w: raw block", ErrTruncated)
		}
		return body[:uncompressedSize], nil
	}
	if uint32(len(body)) < compressedSize {
		return nil, fmt.Errorf("%w: compressed block", ErrTruncated)
	}
	body = body[:compressedSize]

	switch c {
	case CompressionLZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedSize {
			return nil, fmt.Errorf("format: decompressed size mismatch: got %d, want %d", n, uncompressedSize)
		}
		return out, nil
	default:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(body, make([]byte, 0, uncompressedSize))
		if err != nil {
			return nil, err
		}
		if uint32(len(out)) != uncompressedSize {
			return nil, fmt.Errorf("format: decompressed size mismatch: got %d, want %d", len(out), uncompressedSize)
		}
		return out, nil
	}
}
