package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/kmeanstep/codec"
	"github.com/hupe1980/kmeanstep/geometry"
	"github.com/hupe1980/kmeanstep/internal/kmeans"
)

// Version is the current snapshot format version.
const Version = 1

var magic = [4]byte{'K', 'M', 'S', 'S'}

var (
	// ErrInvalidSnapshot is returned for truncated or inconsistent snapshots.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrUnsupportedVersion is returned for snapshots written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	// ErrUnknownCodec is returned when the recorded codec is not built in.
	ErrUnknownCodec = errors.New("unknown snapshot codec")
)

// Document is the serialized form of one session state.
type Document struct {
	K          int              `json:"k"`
	Method     int              `json:"method"`
	Points     []geometry.Point `json:"points"`
	Centroids  []geometry.Point `json:"centroids"`
	Assignment []int            `json:"assignment,omitempty"`
	Step       int              `json:"step"`
	Converged  bool             `json:"converged"`
	Shift      float64          `json:"shift"`
}

// Validate checks the structural invariants of a session state.
func (d *Document) Validate() error {
	if d.K < 1 {
		return fmt.Errorf("%w: k %d below 1", ErrInvalidSnapshot, d.K)
	}
	switch m := kmeans.Method(d.Method); m {
	case kmeans.MethodUnspecified:
		if len(d.Centroids) != 0 {
			return fmt.Errorf("%w: %d centroids without a method", ErrInvalidSnapshot, len(d.Centroids))
		}
	case kmeans.MethodManual:
		if len(d.Centroids) > d.K {
			return fmt.Errorf("%w: %d centroids for k %d", ErrInvalidSnapshot, len(d.Centroids), d.K)
		}
	case kmeans.MethodRandom, kmeans.MethodFarthestFirst, kmeans.MethodKMeansPlusPlus:
		// Sampling methods place all k centroids at once.
		if len(d.Centroids) != 0 && len(d.Centroids) != d.K {
			return fmt.Errorf("%w: %d centroids for k %d with %s", ErrInvalidSnapshot, len(d.Centroids), d.K, m)
		}
	default:
		return fmt.Errorf("%w: unknown method %d", ErrInvalidSnapshot, d.Method)
	}
	if d.Converged && len(d.Centroids) == 0 {
		return fmt.Errorf("%w: converged without centroids", ErrInvalidSnapshot)
	}
	if len(d.Assignment) != 0 && len(d.Assignment) != len(d.Points) {
		return fmt.Errorf("%w: %d labels for %d points", ErrInvalidSnapshot, len(d.Assignment), len(d.Points))
	}
	for i, label := range d.Assignment {
		if label < -1 || label >= len(d.Centroids) {
			return fmt.Errorf("%w: label %d of point %d out of range", ErrInvalidSnapshot, label, i)
		}
	}
	if d.Step < 0 {
		return fmt.Errorf("%w: negative step %d", ErrInvalidSnapshot, d.Step)
	}
	return nil
}

// Options configures encoding.
type Options struct {
	// Codec encodes the document. Defaults to codec.Default.
	Codec codec.Codec
	// Compression applied to the encoded document.
	Compression Compression
}

// Encode serializes doc.
func Encode(doc *Document, optFns ...func(*Options)) ([]byte, error) {
	opts := Options{Codec: codec.Default, Compression: CompressionNone}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	payload, err := opts.Codec.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	block, err := compressBlock(payload, opts.Compression)
	if err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}

	name := opts.Codec.Name()
	if len(name) > 255 {
		return nil, fmt.Errorf("codec name %q too long", name)
	}

	var buf bytes.Buffer
	buf.Grow(len(magic) + 3 + len(name) + len(block))
	buf.Write(magic[:])
	buf.WriteByte(Version)
	buf.WriteByte(byte(opts.Compression))
	buf.WriteByte(byte(len(name)))
	buf.WriteString(name)
	buf.Write(block)
	return buf.Bytes(), nil
}

// Decode parses a snapshot produced by Encode.
func Decode(data []byte) (*Document, error) {
	if len(data) < len(magic)+3 || !bytes.Equal(data[:len(magic)], magic[:]) {
		return nil, fmt.Errorf("%w: bad header", ErrInvalidSnapshot)
	}
	data = data[len(magic):]

	if data[0] != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[0])
	}
	comp := Compression(data[1])
	nameLen := int(data[2])
	data = data[3:]
	if len(data) < nameLen {
		return nil, fmt.Errorf("%w: truncated codec name", ErrInvalidSnapshot)
	}

	name := string(data[:nameLen])
	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}

	payload, err := decompressBlock(data[nameLen:], comp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	doc := new(Document)
	if err := c.Unmarshal(payload, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Write encodes doc to w.
func Write(w io.Writer, doc *Document, optFns ...func(*Options)) error {
	data, err := Encode(doc, optFns...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Read decodes a snapshot from r.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
