package clubcard

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hupe1980/clubcard/codec"
	"github.com/hupe1980/clubcard/internal/format"
)

// Compression selects how an encoded payload is compressed.
type Compression = format.Compression

// Compression algorithms, re-exported for callers of Encode.
const (
	CompressionNone = format.CompressionNone
	CompressionLZ4  = format.CompressionLZ4
	CompressionZSTD = format.CompressionZSTD
)

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(name string) (Compression, error) {
	return format.ParseCompression(name)
}

type encodingOptions struct {
	compression Compression
	codec       codec.Codec
	metrics     MetricsCollector
	logger      *Logger
}

// EncodingOption configures Encode, Decode and New.
type EncodingOption func(*encodingOptions)

// WithCompression sets the payload compression used by Encode.
func WithCompression(c Compression) EncodingOption {
	return func(o *encodingOptions) {
		o.compression = c
	}
}

// WithCodec sets the codec for the universe and partition metadata.
// Decode ignores it unless the frame names no codec it knows.
func WithCodec(c codec.Codec) EncodingOption {
	return func(o *encodingOptions) {
		o.codec = c
	}
}

// WithQueryMetrics records every Lookup of the resulting clubcard.
func WithQueryMetrics(mc MetricsCollector) EncodingOption {
	return func(o *encodingOptions) {
		o.metrics = mc
	}
}

// WithPublishLogger logs Publish and Fetch calls.
func WithPublishLogger(l *Logger) EncodingOption {
	return func(o *encodingOptions) {
		o.logger = l
	}
}

func applyEncodingOptions(opts []EncodingOption) encodingOptions {
	o := encodingOptions{
		compression: CompressionNone,
		codec:       codec.Default,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.codec == nil {
		o.codec = codec.Default
	}
	if o.metrics == nil {
		o.metrics = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}

// Encode writes c to w as a single checksummed frame.
//
// Payload:
//
//	Universe      (length-prefixed, codec encoded)
//	Partition     (length-prefixed, codec encoded)
//	NumEntries    (4 bytes)
//	Entries...    in ascending block order
//	  Block         (length-prefixed)
//	  ApproxOffset, ApproxM, ApproxRank, ExactOffset, ExactM (8 bytes each)
//	  Inverted      (1 byte)
//	  NumExceptions (4 bytes), Exceptions (length-prefixed)
//	  NumApproxExceptions (4 bytes), ApproxExceptions (length-prefixed)
//	NumColumns    (4 bytes)
//	Columns...    (length-prefixed words)
//	Exact         (length-prefixed words)
func Encode[U, P any](w io.Writer, c *Clubcard[U, P], opts ...EncodingOption) error {
	o := applyEncodingOptions(opts)

	universe, partition, err := codec.MarshalMetadata(o.codec, c.universe, c.partition)
	if err != nil {
		return err
	}

	size := len(universe) + len(partition) + 64*len(c.blocks) + 8*len(c.exact)
	for _, col := range c.approx {
		size += 8*len(col) + 4
	}
	pb := format.NewBuffer(make([]byte, 0, size))

	pb.WriteBytes(universe)
	pb.WriteBytes(partition)
	pb.WriteCount(len(c.blocks))
	for _, block := range c.blocks {
		e := c.index[block]
		pb.WriteBytes([]byte(block))
		pb.WriteInt(e.ApproxOffset)
		pb.WriteInt(e.ApproxM)
		pb.WriteInt(e.ApproxRank)
		pb.WriteInt(e.ExactOffset)
		pb.WriteInt(e.ExactM)
		if e.Inverted {
			pb.WriteUint8(1)
		} else {
			pb.WriteUint8(0)
		}
		pb.WriteCount(len(e.Exceptions))
		for _, x := range e.Exceptions {
			pb.WriteBytes(x)
		}
		pb.WriteCount(len(e.ApproxExceptions))
		for _, x := range e.ApproxExceptions {
			pb.WriteBytes(x)
		}
	}
	pb.WriteCount(len(c.approx))
	for _, col := range c.approx {
		pb.WriteWords(col)
	}
	pb.WriteWords(c.exact)

	if err := pb.Err(); err != nil {
		return err
	}

	_, err = format.WriteFrame(w, format.Frame{
		Compression: o.compression,
		Codec:       o.codec.Name(),
		Payload:     pb.Bytes(),
	})
	return err
}

// Marshal encodes c into a byte slice.
func Marshal[U, P any](c *Clubcard[U, P], opts ...EncodingOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, c, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a clubcard written by Encode. The metadata codec is chosen
// by the name recorded in the frame.
func Decode[U, P any](r io.Reader, opts ...EncodingOption) (*Clubcard[U, P], error) {
	o := applyEncodingOptions(opts)

	f, err := format.ReadFrame(r)
	if err != nil {
		return nil, err
	}
	cd, err := codec.Resolve(f.Codec, o.codec)
	if err != nil {
		return nil, err
	}

	pb := format.NewBuffer(f.Payload)

	var (
		universe  U
		partition P
	)
	universeBytes := pb.ReadBytes()
	partitionBytes := pb.ReadBytes()
	if err := pb.Err(); err != nil {
		return nil, err
	}
	if err := codec.UnmarshalMetadata(cd, universeBytes, partitionBytes, &universe, &partition); err != nil {
		return nil, err
	}

	n := pb.ReadCount(4 + 5*8 + 1 + 4 + 4)
	index := make(map[string]Entry, n)
	for i := 0; i < n && pb.Err() == nil; i++ {
		block := string(pb.ReadBytes())
		e := Entry{
			ApproxOffset: pb.ReadInt(),
			ApproxM:      pb.ReadInt(),
			ApproxRank:   pb.ReadInt(),
			ExactOffset:  pb.ReadInt(),
			ExactM:       pb.ReadInt(),
			Inverted:     pb.ReadUint8() == 1,
		}
		k := pb.ReadCount(4)
		for j := 0; j < k; j++ {
			e.Exceptions = append(e.Exceptions, pb.ReadBytes())
		}
		k = pb.ReadCount(4)
		for j := 0; j < k; j++ {
			e.ApproxExceptions = append(e.ApproxExceptions, pb.ReadBytes())
		}
		if _, dup := index[block]; dup {
			return nil, fmt.Errorf("clubcard: duplicate block %q in index", block)
		}
		index[block] = e
	}

	cols := pb.ReadCount(4)
	approx := make([][]uint64, cols)
	for i := range approx {
		approx[i] = pb.ReadWords()
	}
	exact := pb.ReadWords()

	if err := pb.Err(); err != nil {
		return nil, err
	}
	if pb.Remaining() != 0 {
		return nil, fmt.Errorf("clubcard: %d trailing payload bytes", pb.Remaining())
	}
	for block, e := range index {
		if err := checkEntry(e, approx, exact); err != nil {
			return nil, fmt.Errorf("%w: block %q: %s", ErrEntryOutOfRange, block, err)
		}
	}

	return New(universe, partition, index, approx, exact, opts...), nil
}

// Unmarshal decodes a clubcard from data.
func Unmarshal[U, P any](data []byte, opts ...EncodingOption) (*Clubcard[U, P], error) {
	return Decode[U, P](bytes.NewReader(data), opts...)
}

// checkEntry verifies that every row a query of e can anchor at lies inside
// the columns it reads.
func checkEntry(e Entry, approx [][]uint64, exact []uint64) error {
	if e.ApproxRank > len(approx) {
		return fmt.Errorf("approximate rank %d exceeds %d columns", e.ApproxRank, len(approx))
	}
	if e.ApproxM > 0 {
		for i := 0; i < e.ApproxRank; i++ {
			if !rowsFit(e.ApproxOffset, e.ApproxM, approx[i]) {
				return fmt.Errorf("approximate rows [%d, +%d) exceed column %d", e.ApproxOffset, e.ApproxM, i)
			}
		}
	}
	if e.ExactM > 0 && !rowsFit(e.ExactOffset, e.ExactM, exact) {
		return fmt.Errorf("exact rows [%d, +%d) exceed solution", e.ExactOffset, e.ExactM)
	}
	return nil
}

func rowsFit(offset, m int, col []uint64) bool {
	bits := 64 * len(col)
	return m <= bits && offset <= bits-m
}
