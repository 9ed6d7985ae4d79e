// Package snapshot persists analysis results (denoising PCA outcomes and
// residual matrices) to a blobstore.Store as a versioned, compressed,
// self-describing binary format.
//
// Layout: magic, format version, codec name, compression tag, a
// codec-encoded header describing shapes and spectra, then one framed
// block per matrix payload. Files record their own codec and compression,
// so any supported combination can be loaded back.
package snapshot

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/piyushjo15/scran"
	"github.com/piyushjo15/scran/blobstore"
	"github.com/piyushjo15/scran/codec"
	"github.com/piyushjo15/scran/matrix"
)

var magic = [4]byte{'S', 'C', 'R', 'N'}

const formatVersion = 1

var (
	// ErrBadMagic is returned when a blob is not a snapshot.
	ErrBadMagic = errors.New("snapshot: bad magic")
	// ErrBadVersion is returned for unsupported format versions.
	ErrBadVersion = errors.New("snapshot: unsupported format version")
	// ErrUnknownCodec is returned when the header codec is not registered.
	ErrUnknownCodec = errors.New("snapshot: unknown codec")
	// ErrKindMismatch is returned when a blob holds a different result
	// kind than requested.
	ErrKindMismatch = errors.New("snapshot: result kind mismatch")
	// ErrBadHeader is returned when a header decodes with impossible
	// dimensions.
	ErrBadHeader = errors.New("snapshot: invalid header dimensions")
)

const (
	kindPCA    = "pca"
	kindMatrix = "matrix"
)

type header struct {
	Kind         string    `json:"kind"`
	Rows         int       `json:"rows"`
	Cols         int       `json:"cols"`
	Rank         int       `json:"rank,omitempty"`
	Cells        int       `json:"cells,omitempty"`
	PercentVar   []float64 `json:"percent_var,omitempty"`
	RotationRows []int     `json:"rotation_rows,omitempty"`
	Used         []uint32  `json:"used,omitempty"`
}

type options struct {
	compression Compression
	codec       codec.Codec
}

// Option configures Save calls.
type Option func(*options)

// WithCompression selects the block compression (default ZSTD).
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithCodec selects the header codec (default codec.Default).
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

func applyOptions(opts []Option) options {
	o := options{compression: CompressionZSTD, codec: codec.Default}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// SavePCA persists a PCA result under the given blob name.
func SavePCA(ctx context.Context, store blobstore.Store, name string, res *scran.PCAResult, opts ...Option) error {
	o := applyOptions(opts)

	cells, rank := res.Components.Dims()
	rotRows, _ := res.Rotation.Dims()

	h := header{
		Kind:         kindPCA,
		Rows:         rotRows,
		Cols:         rank,
		Rank:         rank,
		Cells:        cells,
		PercentVar:   res.PercentVar,
		RotationRows: res.RotationRows,
		Used:         res.Used.ToArray(),
	}

	buf, err := encodeHeader(h, o)
	if err != nil {
		return err
	}
	if buf, err = appendBlock(buf, encodeDense(res.Components), o.compression); err != nil {
		return err
	}
	if buf, err = appendBlock(buf, encodeDense(res.Rotation), o.compression); err != nil {
		return err
	}

	return store.Put(ctx, name, buf)
}

// LoadPCA reads back a PCA result saved with SavePCA.
func LoadPCA(ctx context.Context, store blobstore.Store, name string) (*scran.PCAResult, error) {
	data, err := store.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	h, compression, rest, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}
	if h.Kind != kindPCA {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrKindMismatch, h.Kind, kindPCA)
	}
	// mat.NewDense panics on non-positive shapes, so reject them here.
	if h.Rank < 1 || h.Cells < 1 || h.Rows < 1 {
		return nil, fmt.Errorf("%w: rows %d, rank %d, cells %d", ErrBadHeader, h.Rows, h.Rank, h.Cells)
	}

	compBlock, rest, err := readBlock(rest, compression)
	if err != nil {
		return nil, err
	}
	rotBlock, _, err := readBlock(rest, compression)
	if err != nil {
		return nil, err
	}

	components, err := decodeDense(compBlock, h.Cells, h.Rank)
	if err != nil {
		return nil, err
	}
	rotation, err := decodeDense(rotBlock, h.Rows, h.Rank)
	if err != nil {
		return nil, err
	}

	return &scran.PCAResult{
		Components:   components,
		Rotation:     rotation,
		RotationRows: h.RotationRows,
		PercentVar:   h.PercentVar,
		Rank:         h.Rank,
		Used:         roaring.BitmapOf(h.Used...),
	}, nil
}

// SaveMatrix persists a dense matrix (e.g. a residual matrix) under the
// given blob name.
func SaveMatrix(ctx context.Context, store blobstore.Store, name string, m *matrix.Dense, opts ...Option) error {
	o := applyOptions(opts)

	rows, cols := m.Dims()
	h := header{Kind: kindMatrix, Rows: rows, Cols: cols}

	buf, err := encodeHeader(h, o)
	if err != nil {
		return err
	}
	if buf, err = appendBlock(buf, encodeFloats(m.RawData()), o.compression); err != nil {
		return err
	}

	return store.Put(ctx, name, buf)
}

// LoadMatrix reads back a matrix saved with SaveMatrix.
func LoadMatrix(ctx context.Context, store blobstore.Store, name string) (*matrix.Dense, error) {
	data, err := store.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	h, compression, rest, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}
	if h.Kind != kindMatrix {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrKindMismatch, h.Kind, kindMatrix)
	}
	// Zero-row residual matrices are legitimate; negative shapes are not.
	if h.Rows < 0 || h.Cols < 0 {
		return nil, fmt.Errorf("%w: rows %d, cols %d", ErrBadHeader, h.Rows, h.Cols)
	}

	block, _, err := readBlock(rest, compression)
	if err != nil {
		return nil, err
	}
	values, err := decodeFloats(block, h.Rows*h.Cols)
	if err != nil {
		return nil, err
	}

	out := matrix.NewDense(h.Rows, h.Cols)
	copy(out.RawData(), values)
	return out, nil
}

func encodeHeader(h header, o options) ([]byte, error) {
	hdr, err := o.codec.Marshal(h)
	if err != nil {
		return nil, err
	}

	codecName := o.codec.Name()
	buf := make([]byte, 0, len(magic)+2+len(codecName)+1+4+len(hdr))
	buf = append(buf, magic[:]...)
	buf = append(buf, formatVersion)
	buf = append(buf, byte(len(codecName)))
	buf = append(buf, codecName...)
	buf = append(buf, byte(o.compression))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(hdr)))
	return append(buf, hdr...), nil
}

func decodeHeader(data []byte) (h header, c Compression, rest []byte, err error) {
	if len(data) < len(magic)+2 || [4]byte(data[:4]) != magic {
		return h, 0, nil, ErrBadMagic
	}
	data = data[4:]

	if data[0] != formatVersion {
		return h, 0, nil, fmt.Errorf("%w: %d", ErrBadVersion, data[0])
	}
	nameLen := int(data[1])
	data = data[2:]
	if len(data) < nameLen+5 {
		return h, 0, nil, errBlockTruncated
	}

	cdc, ok := codec.ByName(string(data[:nameLen]))
	if !ok {
		return h, 0, nil, fmt.Errorf("%w: %q", ErrUnknownCodec, string(data[:nameLen]))
	}
	data = data[nameLen:]

	c = Compression(data[0])
	hdrLen := binary.LittleEndian.Uint32(data[1:])
	data = data[5:]
	if uint32(len(data)) < hdrLen {
		return h, 0, nil, errBlockTruncated
	}

	if err := cdc.Unmarshal(data[:hdrLen], &h); err != nil {
		return h, 0, nil, err
	}
	return h, c, data[hdrLen:], nil
}

func encodeDense(m *mat.Dense) []byte {
	rows, cols := m.Dims()
	buf := make([]byte, 0, rows*cols*8)
	for i := 0; i < rows; i++ {
		for _, v := range m.RawRowView(i) {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
	}
	return buf
}

func decodeDense(block []byte, rows, cols int) (*mat.Dense, error) {
	values, err := decodeFloats(block, rows*cols)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(rows, cols, values), nil
}

func encodeFloats(values []float64) []byte {
	buf := make([]byte, 0, len(values)*8)
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	return buf
}

func decodeFloats(block []byte, n int) ([]float64, error) {
	if len(block) != n*8 {
		return nil, errBlockTruncated
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(block[i*8:]))
	}
	return values, nil
}
