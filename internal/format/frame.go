package format

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/clubcard/internal/conv"
	"github.com/hupe1980/clubcard/internal/hash"
)

const (
	// Magic identifies a clubcard frame ("CLUB").
	Magic uint32 = 0x434C5542
	// Version is the current frame version.
	Version uint32 = 1

	maxCodecName = 255
)

// Frame is a decoded frame. Payload holds the uncompressed bytes.
type Frame struct {
	Compression Compression
	Codec       string
	Payload     []byte
}

// WriteFrame compresses f.Payload and writes the framed result to w.
// It returns the number of bytes written.
func WriteFrame(w io.Writer, f Frame) (int, error) {
	if len(f.Codec) > maxCodecName {
		return 0, fmt.Errorf("format: codec name too long: %d", len(f.Codec))
	}
	stored, err := Compress(f.Payload, f.Compression)
	if err != nil {
		return 0, err
	}
	storedLen, err := conv.IntToUint32(len(stored))
	if err != nil {
		return 0, err
	}

	header := make([]byte, 0, 4+4+1+2+len(f.Codec)+4+4)
	header = binary.LittleEndian.AppendUint32(header, Magic)
	header = binary.LittleEndian.AppendUint32(header, Version)
	header = append(header, byte(f.Compression))
	header = binary.LittleEndian.AppendUint16(header, uint16(len(f.Codec)))
	header = append(header, f.Codec...)
	header = binary.LittleEndian.AppendUint32(header, hash.CRC32C(stored))
	header = binary.LittleEndian.AppendUint32(header, storedLen)

	n, err := w.Write(header)
	if err != nil {
		return n, err
	}
	m, err := w.Write(stored)
	return n + m, err
}

// ReadFrame reads one frame from r, verifies its checksum and returns the
// decompressed payload.
func ReadFrame(r io.Reader) (Frame, error) {
	var f Frame

	fixed := make([]byte, 11)
	if err := readFull(r, fixed); err != nil {
		return f, err
	}
	if magic := binary.LittleEndian.Uint32(fixed[0:4]); magic != Magic {
		return f, fmt.Errorf("%w: %x", ErrInvalidMagic, magic)
	}
	if version := binary.LittleEndian.Uint32(fixed[4:8]); version != Version {
		return f, fmt.Errorf("%w: %d", ErrInvalidVersion, version)
	}
	f.Compression = Compression(fixed[8])
	nameLen := int(binary.LittleEndian.Uint16(fixed[9:11]))

	rest := make([]byte, nameLen+8)
	if err := readFull(r, rest); err != nil {
		return f, err
	}
	f.Codec = string(rest[:nameLen])
	checksum := binary.LittleEndian.Uint32(rest[nameLen:])
	length := binary.LittleEndian.Uint32(rest[nameLen+4:])

	stored := make([]byte, length)
	if err := readFull(r, stored); err != nil {
		return f, err
	}
	if hash.CRC32C(stored) != checksum {
		return f, ErrChecksumMismatch
	}

	payload, err := Decompress(stored, f.Compression)
	if err != nil {
		return f, err
	}
	f.Payload = payload
	return f, nil
}

func readFull(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		return err
	}
	return nil
}
