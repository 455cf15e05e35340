// Package draco decodes Draco-style compressed triangle meshes.
package draco

import (
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Mesh is a fully decoded container.
type Mesh struct {
	Header     Header
	Faces      []Face
	NumPoints  int
	Attributes []*DecodedAttribute

	// Table is the corner table for edgebreaker meshes, nil otherwise.
	Table *CornerTable

	// Encoding is the sequential index coding, meaningful for sequential meshes.
	Encoding IndexEncoding
}

// NumFaces returns the number of triangles.
func (m *Mesh) NumFaces() int {
	return len(m.Faces)
}

// Attribute returns the first attribute of the given type, or nil.
func (m *Mesh) Attribute(t AttributeType) *DecodedAttribute {
	for _, a := range m.Attributes {
		if a.Descriptor.Type == t {
			return a
		}
	}
	return nil
}

// Positions returns the dequantized positions, or nil if there are none.
func (m *Mesh) Positions() [][3]float32 {
	a := m.Attribute(AttributePosition)
	if a == nil || a.FloatComponents != 3 {
		return nil
	}
	out := make([][3]float32, m.NumPoints)
	for p := range out {
		copy(out[p][:], a.Floats[3*p:3*p+3])
	}
	return out
}

// Topology returns the corner table, building one from the face list for
// sequential meshes.
func (m *Mesh) Topology() (*CornerTable, error) {
	if m.Table != nil {
		return m.Table, nil
	}
	return NewCornerTable(m.Faces, m.NumPoints)
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger used for per-stage debug output.
func WithLogger(log *zap.Logger) Option {
	return func(d *Decoder) {
		if log != nil {
			d.log = log
		}
	}
}

// WithLimits overrides DefaultLimits.
func WithLimits(l Limits) Option {
	return func(d *Decoder) { d.limits = l }
}

// WithResidualDecoder substitutes the residual decoder.
func WithResidualDecoder(f ResidualDecoderFunc) Option {
	return func(d *Decoder) {
		if f != nil {
			d.residuals = f
		}
	}
}

// Decoder decodes containers. It holds no per-call state and is safe for
// concurrent use.
type Decoder struct {
	log       *zap.Logger
	limits    Limits
	residuals ResidualDecoderFunc
}

// NewDecoder returns a decoder with the given options applied.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		log:       zap.NewNop(),
		limits:    DefaultLimits(),
		residuals: NewVarIntResiduals,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode decodes a complete container held in memory.
func (d *Decoder) Decode(data []byte) (*Mesh, error) {
	log := d.log.With(zap.String("session", uuid.NewString()))
	c := NewCursor(data)

	h, err := ParseHeader(c)
	if err != nil {
		return nil, err
	}
	log.Debug("parsed header",
		zap.Stringer("version", h.Version),
		zap.Stringer("method", h.Method),
		zap.Uint16("flags", h.Flags))

	conn, err := DecodeConnectivity(h, c, d.limits)
	if err != nil {
		return nil, errors.Wrap(err, "decoding connectivity")
	}
	log.Debug("decoded connectivity",
		zap.Int("faces", len(conn.Faces)),
		zap.Int("points", conn.NumPoints),
		zap.Int("offset", c.Offset()))

	mesh := &Mesh{
		Header:    *h,
		Faces:     conn.Faces,
		NumPoints: conn.NumPoints,
		Table:     conn.Table,
		Encoding:  conn.Encoding,
	}
	if c.Remaining() == 0 {
		// Connectivity-only container.
		return mesh, nil
	}

	groups, err := ParseAttributeGroups(h, c, d.limits)
	if err != nil {
		return nil, errors.Wrap(err, "parsing attribute groups")
	}
	seqs, err := GenerateSequences(conn, groups)
	if err != nil {
		return nil, err
	}
	for i, g := range groups {
		attrs, err := decodeGroup(g, seqs[i], conn, c, d.residuals)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding attribute group %d", i)
		}
		for _, a := range attrs {
			log.Debug("decoded attribute",
				zap.Int("group", i),
				zap.Stringer("type", a.Descriptor.Type),
				zap.Stringer("scheme", a.Scheme),
				zap.Stringer("method", a.Method),
				zap.Int("values", seqs[i].Len()))
		}
		mesh.Attributes = append(mesh.Attributes, attrs...)
	}
	return mesh, nil
}

// Decode decodes data with a default Decoder.
func Decode(data []byte) (*Mesh, error) {
	return NewDecoder().Decode(data)
}

// DecodeFile reads and decodes a container from disk.
func DecodeFile(path string, opts ...Option) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading draco file")
	}
	return NewDecoder(opts...).Decode(data)
}
