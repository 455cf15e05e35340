// Package draco decodes Draco-style compressed triangle meshes.
package draco

import "github.com/pkg/errors"

// TraversalMethod is the corner-table traversal used to order values.
type TraversalMethod uint8

const (
	TraversalDepthFirst       TraversalMethod = 0
	TraversalPredictionDegree TraversalMethod = 1
)

// SequenceMap is the order in which a group's values were encoded.
type SequenceMap struct {
	// Points holds the point of each encoded value. It is nil for the
	// identity order, where value i belongs to point i.
	Points   []int
	// Corners holds the corner that first reached each point. It is nil
	// when no corner table exists.
	Corners  []int
	// valueOf maps a point back to its encoded value index.
	valueOf  []int
	// identity is the value count of an identity order.
	identity int
}

// Len returns the number of encoded values.
func (m *SequenceMap) Len() int {
	if m.Points == nil {
		return m.identity
	}
	return len(m.Points)
}

// Point returns the point of encoded value i.
func (m *SequenceMap) Point(i int) int {
	if m.Points == nil {
		return i
	}
	return m.Points[i]
}

// ValueIndex returns the encoded value index of point p, or InvalidIndex.
func (m *SequenceMap) ValueIndex(p int) int {
	if m.Points == nil {
		if p < 0 || p >= m.identity {
			return InvalidIndex
		}
		return p
	}
	if p < 0 || p >= len(m.valueOf) {
		return InvalidIndex
	}
	return m.valueOf[p]
}

func newSequenceMap(numPoints int, withCorners bool) *SequenceMap {
	m := &SequenceMap{
		Points:  make([]int, 0, numPoints),
		valueOf: make([]int, numPoints),
	}
	if withCorners {
		m.Corners = make([]int, 0, numPoints)
	}
	for i := range m.valueOf {
		m.valueOf[i] = InvalidIndex
	}
	return m
}

func (m *SequenceMap) visit(p, corner int) {
	m.valueOf[p] = len(m.Points)
	m.Points = append(m.Points, p)
	if m.Corners != nil {
		m.Corners = append(m.Corners, corner)
	}
}

func (m *SequenceMap) visited(p int) bool {
	return m.valueOf[p] != InvalidIndex
}

// GenerateSequences builds one SequenceMap per attribute decoder group.
func GenerateSequences(conn *Connectivity, groups []*AttributeGroup) ([]*SequenceMap, error) {
	seqs := make([]*SequenceMap, len(groups))
	for i, g := range groups {
		seq, err := generateSequence(conn, g.Traversal)
		if err != nil {
			return nil, errors.Wrapf(err, "sequencing attribute group %d", i)
		}
		seqs[i] = seq
	}
	return seqs, nil
}

func generateSequence(conn *Connectivity, method TraversalMethod) (*SequenceMap, error) {
	if conn.Table == nil {
		return identitySequence(conn.NumPoints), nil
	}
	if method != TraversalDepthFirst {
		return nil, errors.Wrapf(ErrUnsupportedFeature, "traversal method %d", method)
	}
	return depthFirstSequence(conn.Table)
}

// identitySequence orders values by point index. Nothing is allocated, so
// a point count read from the header costs no memory until values arrive.
func identitySequence(numPoints int) *SequenceMap {
	return &SequenceMap{identity: numPoints}
}

// depthFirstSequence walks the corner table from every face in decode order
// and numbers points the first time they are reached.
func depthFirstSequence(ct *CornerTable) (*SequenceMap, error) {
	m := newSequenceMap(ct.NumPoints(), true)
	t := &depthFirstTraverser{
		ct:          ct,
		seq:         m,
		faceVisited: make([]bool, ct.NumFaces()),
	}
	for f := 0; f < ct.NumFaces(); f++ {
		t.traverseFrom(3 * f)
	}

	for c := 0; c < ct.NumCorners(); c++ {
		if p := ct.Point(c); !m.visited(p) {
			return nil, errors.Wrapf(ErrSequencingInconsistent, "point %d at corner %d never sequenced", p, c)
		}
	}
	return m, nil
}

type depthFirstTraverser struct {
	ct          *CornerTable
	seq         *SequenceMap
	faceVisited []bool
	stack       []int
}

func (t *depthFirstTraverser) isFaceVisited(c int) bool {
	if c == InvalidIndex {
		return true
	}
	return t.faceVisited[c/3]
}

func (t *depthFirstTraverser) visitPoint(c int) {
	if p := t.ct.Point(c); !t.seq.visited(p) {
		t.seq.visit(p, c)
	}
}

func (t *depthFirstTraverser) traverseFrom(start int) {
	if t.isFaceVisited(start) {
		return
	}
	// The far corners of the first face have no traversal step of their own.
	t.visitPoint(Next(start))
	t.visitPoint(Previous(start))

	t.stack = append(t.stack[:0], start)
	for len(t.stack) > 0 {
		c := t.stack[len(t.stack)-1]
		if t.isFaceVisited(c) {
			t.stack = t.stack[:len(t.stack)-1]
			continue
		}
		for {
			t.faceVisited[c/3] = true
			p := t.ct.Point(c)
			if !t.seq.visited(p) {
				onBoundary := t.ct.IsOnBoundary(p)
				t.seq.visit(p, c)
				if !onBoundary {
					c = t.ct.RightCorner(c)
					continue
				}
			}
			right := t.ct.RightCorner(c)
			left := t.ct.LeftCorner(c)
			rightDone := t.isFaceVisited(right)
			leftDone := t.isFaceVisited(left)
			if rightDone && leftDone {
				t.stack = t.stack[:len(t.stack)-1]
				break
			}
			if rightDone {
				c = left
				continue
			}
			if leftDone {
				c = right
				continue
			}
			t.stack[len(t.stack)-1] = left
			t.stack = append(t.stack, right)
			break
		}
	}
}
