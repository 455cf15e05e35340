// Package draco decodes Draco-style compressed triangle meshes.
package draco

import (
	"fmt"

	"github.com/pkg/errors"
)

// PredictionScheme is the per-attribute predictor selector.
type PredictionScheme int8

const (
	PredictionNone               PredictionScheme = -2
	PredictionDelta              PredictionScheme = 0
	PredictionParallelogram      PredictionScheme = 1
	PredictionMultiParallelogram PredictionScheme = 2
)

// String returns a human-readable scheme name.
func (s PredictionScheme) String() string {
	switch s {
	case PredictionNone:
		return "None"
	case PredictionDelta:
		return "Delta"
	case PredictionParallelogram:
		return "Parallelogram"
	case PredictionMultiParallelogram:
		return "MultiParallelogram"
	default:
		return fmt.Sprintf("Unknown(%d)", int8(s))
	}
}

// NeedsTopology reports whether the scheme reads the corner table.
func (s PredictionScheme) NeedsTopology() bool {
	return s == PredictionParallelogram || s == PredictionMultiParallelogram
}

// predictFunc writes the prediction for encoded value i into pred. values
// holds every value decoded so far in sequence order.
type predictFunc func(i int, values, pred []int32)

// predictor resolves a scheme to its prediction function once per attribute.
func predictor(scheme PredictionScheme, comps int, seq *SequenceMap, ct *CornerTable) (predictFunc, error) {
	switch scheme {
	case PredictionNone:
		return func(int, []int32, []int32) {}, nil
	case PredictionDelta:
		return func(i int, values, pred []int32) {
			predictDelta(i, comps, values, pred)
		}, nil
	case PredictionParallelogram, PredictionMultiParallelogram:
		if ct == nil || seq.Corners == nil {
			return nil, errors.Wrapf(ErrPredictionRequiresTopology, "%s", scheme)
		}
		p := &parallelogram{ct: ct, seq: seq, comps: comps, scratch: make([]int32, comps)}
		if scheme == PredictionParallelogram {
			return p.predictSingle, nil
		}
		p.sum = make([]int64, comps)
		return p.predictMulti, nil
	default:
		return nil, errors.Wrapf(ErrUnknownPredictionScheme, "selector %d", int8(scheme))
	}
}

const initialValueCap = 1 << 12

// decodeValues reconstructs comps components for every encoded value in
// sequence order as prediction plus residual.
func decodeValues(scheme PredictionScheme, comps int, seq *SequenceMap, ct *CornerTable, residuals ResidualDecoder) ([]int32, error) {
	predict, err := predictor(scheme, comps, seq, ct)
	if err != nil {
		return nil, err
	}
	// Grow with the input rather than trusting the sequence length.
	values := make([]int32, 0, min(seq.Len(), initialValueCap)*comps)
	pred := make([]int32, comps)
	for i := 0; i < seq.Len(); i++ {
		for k := range pred {
			pred[k] = 0
		}
		predict(i, values, pred)
		r, err := residuals.NextResidual(comps)
		if err != nil {
			return nil, errors.Wrapf(err, "reading residual %d", i)
		}
		if len(r) != comps {
			return nil, errors.Wrapf(ErrTruncated, "residual %d has %d of %d components", i, len(r), comps)
		}
		for k := range pred {
			values = append(values, pred[k]+r[k])
		}
	}
	return values, nil
}

// predictDelta predicts the previous value in sequence order, zero for the first.
func predictDelta(i, comps int, values, pred []int32) {
	if i == 0 {
		return
	}
	copy(pred, values[(i-1)*comps:i*comps])
}

type parallelogram struct {
	ct      *CornerTable
	seq     *SequenceMap
	comps   int
	scratch []int32
	sum     []int64
}

// compute writes a+b-c into out for the face across the edge facing corner
// c, when all three of its values precede encoded value i.
func (p *parallelogram) compute(c, i int, values, out []int32) bool {
	o := p.ct.Opposite(c)
	if o == InvalidIndex {
		return false
	}
	a := p.seq.ValueIndex(p.ct.Point(Next(o)))
	b := p.seq.ValueIndex(p.ct.Point(Previous(o)))
	opp := p.seq.ValueIndex(p.ct.Point(o))
	if !decodedBefore(a, i) || !decodedBefore(b, i) || !decodedBefore(opp, i) {
		return false
	}
	n := p.comps
	for k := range out {
		out[k] = values[a*n+k] + values[b*n+k] - values[opp*n+k]
	}
	return true
}

func decodedBefore(v, i int) bool {
	return v != InvalidIndex && v < i
}

func (p *parallelogram) predictSingle(i int, values, pred []int32) {
	if !p.compute(p.seq.Corners[i], i, values, pred) {
		predictDelta(i, p.comps, values, pred)
	}
}

// predictMulti averages the parallelograms of every face around the
// point, swinging left first and then right from the start corner.
func (p *parallelogram) predictMulti(i int, values, pred []int32) {
	for k := range p.sum {
		p.sum[k] = 0
	}
	count := 0
	start := p.seq.Corners[i]
	c := start
	firstPass := true
	for steps := 0; c != InvalidIndex && steps <= p.ct.NumCorners(); steps++ {
		if p.compute(c, i, values, p.scratch) {
			for k, v := range p.scratch {
				p.sum[k] += int64(v)
			}
			count++
		}
		if firstPass {
			c = p.ct.SwingLeft(c)
		} else {
			c = p.ct.SwingRight(c)
		}
		if c == start {
			break
		}
		if c == InvalidIndex && firstPass {
			firstPass = false
			c = p.ct.SwingRight(start)
		}
	}
	if count == 0 {
		predictDelta(i, p.comps, values, pred)
		return
	}
	for k := range pred {
		pred[k] = int32(p.sum[k] / int64(count))
	}
}
