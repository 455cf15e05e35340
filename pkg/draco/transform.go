package draco

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

const maxQuantizationBits = 30

// dequantize reads per-component minimums, the range and the bit count, and
// maps quantized values back to floats.
func dequantize(a *DecodedAttribute, c *Cursor) error {
	mins := make([]float32, a.Components)
	for k := range mins {
		v, err := c.ReadF32()
		if err != nil {
			return errors.Wrap(err, "reading quantization minimum")
		}
		mins[k] = v
	}
	rng, err := c.ReadF32()
	if err != nil {
		return errors.Wrap(err, "reading quantization range")
	}
	bits, err := c.ReadU8()
	if err != nil {
		return errors.Wrap(err, "reading quantization bits")
	}
	if bits < 1 || bits > maxQuantizationBits {
		return errors.Wrapf(ErrInvalidHeader, "quantization bits %d", bits)
	}

	step := rng / float32(uint32(1)<<bits-1)
	a.FloatComponents = a.Components
	a.Floats = make([]float32, len(a.Values))
	for j, q := range a.Values {
		a.Floats[j] = mins[j%a.Components] + float32(q)*step
	}
	return nil
}

// decodeNormals turns quantized octahedral coordinates into unit vectors.
func decodeNormals(a *DecodedAttribute, c *Cursor) error {
	bits, err := c.ReadU8()
	if err != nil {
		return errors.Wrap(err, "reading normal quantization bits")
	}
	if bits < 2 || bits > maxQuantizationBits {
		return errors.Wrapf(ErrInvalidHeader, "normal quantization bits %d", bits)
	}
	scale := 1 / float32(uint32(1)<<bits-1)

	n := len(a.Values) / 2
	a.FloatComponents = 3
	a.Floats = make([]float32, n*3)
	for p := 0; p < n; p++ {
		v := OctahedronToUnitVector(float32(a.Values[2*p])*scale, float32(a.Values[2*p+1])*scale)
		copy(a.Floats[3*p:3*p+3], v[:])
	}
	return nil
}

// OctahedronToUnitVector maps octahedral coordinates in [0,1]² to a unit
// vector. Degenerate input yields the zero vector.
func OctahedronToUnitVector(inS, inT float32) [3]float32 {
	s, t := inS, inT
	spt, smt := s+t, s-t
	xSign := float32(1)
	if !(spt >= 0.5 && spt <= 1.5 && smt >= -0.5 && smt <= 0.5) {
		xSign = -1
		switch {
		case spt <= 0.5:
			s, t = 0.5-inT, 0.5-inS
		case spt >= 1.5:
			s, t = 1.5-inT, 1.5-inS
		case smt <= -0.5:
			s, t = inT-0.5, inS+0.5
		default:
			s, t = inT+0.5, inS-0.5
		}
		spt, smt = s+t, s-t
	}
	y := 2*s - 1
	z := 2*t - 1
	x := math32.Min(math32.Min(2*spt-1, 3-2*spt), math32.Min(2*smt+1, 1-2*smt)) * xSign

	norm := x*x + y*y + z*z
	if norm < 1e-6 {
		return [3]float32{}
	}
	d := 1 / math32.Sqrt(norm)
	return [3]float32{x * d, y * d, z * d}
}
