package draco

import "github.com/pkg/errors"

// ResidualDecoder yields one residual per component for each encoded value.
type ResidualDecoder interface {
	NextResidual(components int) ([]int32, error)
}

// ResidualDecoderFunc creates the residual decoder for one attribute. The
// decoder must leave the cursor just past the attribute's residual data.
type ResidualDecoderFunc func(c *Cursor) ResidualDecoder

// VarIntResiduals reads residuals as zigzag varints straight off the cursor.
type VarIntResiduals struct {
	c   *Cursor
	buf []int32
}

// NewVarIntResiduals is the default ResidualDecoderFunc.
func NewVarIntResiduals(c *Cursor) ResidualDecoder {
	return &VarIntResiduals{c: c}
}

// NextResidual reads components signed residuals. The returned slice is
// reused by the next call.
func (r *VarIntResiduals) NextResidual(components int) ([]int32, error) {
	if cap(r.buf) < components {
		r.buf = make([]int32, components)
	}
	r.buf = r.buf[:components]
	for k := range r.buf {
		v, err := r.c.ReadVarInt()
		if err != nil {
			return nil, err
		}
		if int64(int32(v)) != v {
			return nil, errors.Wrapf(ErrMalformedResidual, "residual %d overflows int32", v)
		}
		r.buf[k] = int32(v)
	}
	return r.buf, nil
}
