// Package draco decodes Draco-style compressed triangle meshes.
// Sequential connectivity: explicit or delta-coded index triples.
package draco

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// IndexEncoding is the sequential index coding tag.
type IndexEncoding uint8

const (
	IndicesCompressed   IndexEncoding = 0
	IndicesUncompressed IndexEncoding = 1
)

// String returns a human-readable encoding name.
func (e IndexEncoding) String() string {
	switch e {
	case IndicesCompressed:
		return "Compressed"
	case IndicesUncompressed:
		return "Uncompressed"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(e))
	}
}

// Limits caps counts read from untrusted input before anything is allocated.
// Zero means unlimited.
type Limits struct {
	MaxFaces      int
	MaxPoints     int
	MaxComponents int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxFaces:      1 << 22,
		MaxPoints:     1 << 22,
		MaxComponents: 16,
	}
}

func (l Limits) checkCounts(numFaces, numPoints uint64) error {
	if l.MaxFaces > 0 && numFaces > uint64(l.MaxFaces) {
		return errors.Wrapf(ErrMalformedConnectivity, "%d faces exceeds limit %d", numFaces, l.MaxFaces)
	}
	if l.MaxPoints > 0 && numPoints > uint64(l.MaxPoints) {
		return errors.Wrapf(ErrMalformedConnectivity, "%d points exceeds limit %d", numPoints, l.MaxPoints)
	}
	if numFaces > 1<<31/3 || numPoints > 1<<31 {
		return errors.Wrapf(ErrMalformedConnectivity, "counts %d faces / %d points too large", numFaces, numPoints)
	}
	return nil
}

// Connectivity is the decoded topology.
type Connectivity struct {
	Method    EncoderMethod
	Faces     []Face
	NumPoints int

	// Table is only built by the edgebreaker decoder.
	Table *CornerTable

	// Encoding is the sequential index coding, unset for edgebreaker.
	Encoding IndexEncoding
}

// DecodeConnectivity reads the connectivity block that follows the header.
func DecodeConnectivity(h *Header, c *Cursor, limits Limits) (*Connectivity, error) {
	switch h.Method {
	case MethodSequential:
		return decodeSequential(c, limits)
	case MethodEdgebreaker:
		return decodeEdgebreaker(c, limits)
	default:
		return nil, errors.Wrapf(ErrInvalidHeader, "encoder method %s", h.Method)
	}
}

func decodeSequential(c *Cursor, limits Limits) (*Connectivity, error) {
	numFaces, err := c.ReadVarUint()
	if err != nil {
		return nil, errors.Wrap(err, "reading face count")
	}
	numPoints, err := c.ReadVarUint()
	if err != nil {
		return nil, errors.Wrap(err, "reading point count")
	}
	if err := limits.checkCounts(numFaces, numPoints); err != nil {
		return nil, err
	}
	tag, err := c.ReadU8()
	if err != nil {
		return nil, errors.Wrap(err, "reading index encoding")
	}

	conn := &Connectivity{
		Method:    MethodSequential,
		NumPoints: int(numPoints),
		Encoding:  IndexEncoding(tag),
	}
	switch conn.Encoding {
	case IndicesCompressed:
		conn.Faces, err = decodeCompressedIndices(c, int(numFaces), conn.NumPoints)
	case IndicesUncompressed:
		conn.Faces, err = decodeUncompressedIndices(c, int(numFaces), conn.NumPoints)
	default:
		return nil, errors.Wrapf(ErrInvalidHeader, "index encoding %s", conn.Encoding)
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// indexWidth returns the byte width of an uncompressed index.
func indexWidth(numPoints int) int {
	switch {
	case numPoints < 1<<8:
		return 1
	case numPoints < 1<<16:
		return 2
	default:
		return 4
	}
}

func decodeUncompressedIndices(c *Cursor, numFaces, numPoints int) ([]Face, error) {
	width := indexWidth(numPoints)
	if need := numFaces * 3 * width; c.Remaining() < need {
		return nil, errors.Wrapf(ErrTruncated, "%d faces need %d index bytes, have %d", numFaces, need, c.Remaining())
	}
	faces := make([]Face, numFaces)
	for f := range faces {
		for k := 0; k < 3; k++ {
			var idx uint32
			var err error
			switch width {
			case 1:
				idx, err = readIndex(c.ReadU8)
			case 2:
				idx, err = readIndex(c.ReadU16)
			default:
				idx, err = readIndex(c.ReadU32)
			}
			if err != nil {
				return nil, errors.Wrapf(err, "reading face %d", f)
			}
			if int64(idx) >= int64(numPoints) {
				return nil, errors.Wrapf(ErrMalformedConnectivity, "face %d index %d >= %d points", f, idx, numPoints)
			}
			faces[f][k] = idx
		}
	}
	return faces, nil
}

func readIndex[T constraints.Unsigned](read func() (T, error)) (uint32, error) {
	v, err := read()
	return uint32(v), err
}

// decodeCompressedIndices reads sign-in-low-bit deltas against the last
// decoded index.
func decodeCompressedIndices(c *Cursor, numFaces, numPoints int) ([]Face, error) {
	if need := numFaces * 3; c.Remaining() < need {
		return nil, errors.Wrapf(ErrTruncated, "%d faces need at least %d index bytes, have %d", numFaces, need, c.Remaining())
	}
	faces := make([]Face, numFaces)
	last := int64(0)
	for f := range faces {
		for k := 0; k < 3; k++ {
			v, err := c.ReadVarUint()
			if err != nil {
				return nil, errors.Wrapf(err, "reading face %d", f)
			}
			diff := int64(v >> 1)
			if v&1 == 1 {
				diff = -diff
			}
			idx := last + diff
			if idx < 0 || idx >= int64(numPoints) {
				return nil, errors.Wrapf(ErrMalformedConnectivity, "face %d index %d outside [0,%d)", f, idx, numPoints)
			}
			faces[f][k] = uint32(idx)
			last = idx
		}
	}
	return faces, nil
}
