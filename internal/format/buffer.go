package format

import (
	"encoding/binary"

	"github.com/hupe1980/clubcard/internal/conv"
)

// Buffer appends and reads little-endian payload fields. The first error
// sticks: later calls become no-ops and Err reports it.
type Buffer struct {
	buf []byte
	pos int
	err error
}

// NewBuffer returns a Buffer over b. Writes append to b, reads start at its
// beginning.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{buf: b}
}

// Bytes returns the buffer contents.
func (p *Buffer) Bytes() []byte { return p.buf }

// Err returns the first error encountered.
func (p *Buffer) Err() error { return p.err }

// Remaining returns the number of unread bytes.
func (p *Buffer) Remaining() int { return len(p.buf) - p.pos }

// WriteUint8 appends v.
func (p *Buffer) WriteUint8(v uint8) {
	if p.err != nil {
		return
	}
	p.buf = append(p.buf, v)
}

// WriteUint32 appends v.
func (p *Buffer) WriteUint32(v uint32) {
	if p.err != nil {
		return
	}
	p.buf = binary.LittleEndian.AppendUint32(p.buf, v)
}

// WriteUint64 appends v.
func (p *Buffer) WriteUint64(v uint64) {
	if p.err != nil {
		return
	}
	p.buf = binary.LittleEndian.AppendUint64(p.buf, v)
}

// WriteInt appends a non-negative int as a uint64.
func (p *Buffer) WriteInt(v int) {
	if p.err != nil {
		return
	}
	u, err := conv.IntToUint64(v)
	if err != nil {
		p.err = err
		return
	}
	p.WriteUint64(u)
}

// WriteCount appends an element count or length as a uint32.
func (p *Buffer) WriteCount(n int) {
	if p.err != nil {
		return
	}
	u, err := conv.IntToUint32(n)
	if err != nil {
		p.err = err
		return
	}
	p.WriteUint32(u)
}

// WriteBytes appends b with a 4 byte length prefix.
func (p *Buffer) WriteBytes(b []byte) {
	p.WriteCount(len(b))
	if p.err != nil {
		return
	}
	p.buf = append(p.buf, b...)
}

// WriteWords appends a length-prefixed run of 64-bit words.
func (p *Buffer) WriteWords(words []uint64) {
	p.WriteCount(len(words))
	for _, w := range words {
		p.WriteUint64(w)
	}
}

// ReadUint8 reads one byte.
func (p *Buffer) ReadUint8() uint8 {
	if !p.need(1) {
		return 0
	}
	v := p.buf[p.pos]
	p.pos++
	return v
}

// ReadUint32 reads a uint32.
func (p *Buffer) ReadUint32() uint32 {
	if !p.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(p.buf[p.pos:])
	p.pos += 4
	return v
}

// ReadUint64 reads a uint64.
func (p *Buffer) ReadUint64() uint64 {
	if !p.need(8) {
		return 0
	}
	v := binary.LittleEndian.Uint64(p.buf[p.pos:])
	p.pos += 8
	return v
}

// ReadInt reads an int written by WriteInt.
func (p *Buffer) ReadInt() int {
	v := p.ReadUint64()
	if p.err != nil {
		return 0
	}
	n, err := conv.Uint64ToInt(v)
	if err != nil {
		p.err = err
		return 0
	}
	return n
}

// ReadBytes reads a length-prefixed byte field. The result is a copy.
func (p *Buffer) ReadBytes() []byte {
	n := int(p.ReadUint32())
	if !p.need(n) {
		return nil
	}
	b := make([]byte, n)
	copy(b, p.buf[p.pos:])
	p.pos += n
	return b
}

// ReadWords reads a run written by WriteWords.
func (p *Buffer) ReadWords() []uint64 {
	n := int(p.ReadUint32())
	if !p.need(8 * n) {
		return nil
	}
	words := make([]uint64, n)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(p.buf[p.pos:])
		p.pos += 8
	}
	return words
}

// ReadCount reads a uint32 element count and checks that at least
// minSize bytes per element remain.
func (p *Buffer) ReadCount(minSize int) int {
	n := int(p.ReadUint32())
	if !p.need(n * minSize) {
		return 0
	}
	return n
}

func (p *Buffer) need(n int) bool {
	if p.err != nil {
		return false
	}
	if n < 0 || p.pos+n > len(p.buf) {
		p.err = ErrTruncated
		return false
	}
	return true
}
