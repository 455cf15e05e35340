// Package draco decodes Draco-style compressed triangle meshes.
package draco

import "github.com/pkg/errors"

// InvalidIndex marks a missing corner, point or face.
const InvalidIndex = -1

// Face is a triangle as three point indices.
type Face [3]uint32

// Next returns the next corner within the same face.
func Next(c int) int {
	if c < 0 {
		return InvalidIndex
	}
	if c%3 == 2 {
		return c - 2
	}
	return c + 1
}

// Previous returns the previous corner within the same face.
func Previous(c int) int {
	if c < 0 {
		return InvalidIndex
	}
	if c%3 == 0 {
		return c + 2
	}
	return c - 1
}

// CornerTable maps every corner to its point and to the corner opposite it
// across the shared edge. Links are flat index arrays; InvalidIndex marks a
// boundary.
type CornerTable struct {
	points    []int32 // corner -> point
	opposite  []int32 // corner -> opposite corner
	leftMost  []int32 // point -> left-most corner
	numPoints int
}

// NewCornerTable builds a table from a face list. Opposite links are found
// by matching each directed edge against its reverse.
func NewCornerTable(faces []Face, numPoints int) (*CornerTable, error) {
	ct := newCornerTable(len(faces)*3, numPoints)
	for f, face := range faces {
		for k, p := range face {
			if int(p) >= numPoints {
				return nil, errors.Wrapf(ErrMalformedConnectivity, "face %d index %d >= %d points", f, p, numPoints)
			}
			ct.points[3*f+k] = int32(p)
		}
	}

	type edge struct{ from, to int32 }
	open := make(map[edge]int, len(faces)*3)
	for c := range ct.points {
		e := edge{ct.points[Next(c)], ct.points[Previous(c)]}
		rev := edge{e.to, e.from}
		if o, ok := open[rev]; ok {
			delete(open, rev)
			ct.setOpposite(c, o)
			continue
		}
		// Non-manifold edges stay as boundaries.
		if _, dup := open[e]; !dup {
			open[e] = c
		}
	}
	ct.updateLeftMost()
	return ct, nil
}

func newCornerTable(numCorners, numPoints int) *CornerTable {
	ct := &CornerTable{
		points:    make([]int32, numCorners),
		opposite:  make([]int32, numCorners),
		leftMost:  make([]int32, numPoints),
		numPoints: numPoints,
	}
	for i := range ct.opposite {
		ct.opposite[i] = InvalidIndex
		ct.points[i] = InvalidIndex
	}
	for i := range ct.leftMost {
		ct.leftMost[i] = InvalidIndex
	}
	return ct
}

// NumCorners returns the number of corners (three per face).
func (ct *CornerTable) NumCorners() int { return len(ct.points) }

// NumFaces returns the number of faces.
func (ct *CornerTable) NumFaces() int { return len(ct.points) / 3 }

// NumPoints returns the number of points.
func (ct *CornerTable) NumPoints() int { return ct.numPoints }

// Point returns the point referenced by corner c.
func (ct *CornerTable) Point(c int) int {
	if c < 0 {
		return InvalidIndex
	}
	return int(ct.points[c])
}

// Opposite returns the corner across the edge facing c, or InvalidIndex.
func (ct *CornerTable) Opposite(c int) int {
	if c < 0 {
		return InvalidIndex
	}
	return int(ct.opposite[c])
}

// LeftMostCorner returns the corner of point p from which swinging left
// reaches a boundary (any corner of p for interior points).
func (ct *CornerTable) LeftMostCorner(p int) int {
	if p < 0 || p >= len(ct.leftMost) {
		return InvalidIndex
	}
	return int(ct.leftMost[p])
}

// SwingLeft returns the corner of the same point in the face to the left.
func (ct *CornerTable) SwingLeft(c int) int {
	return Next(ct.Opposite(Next(c)))
}

// SwingRight returns the corner of the same point in the face to the right.
func (ct *CornerTable) SwingRight(c int) int {
	return Previous(ct.Opposite(Previous(c)))
}

// RightCorner returns the corner opposite the edge to the right of c.
func (ct *CornerTable) RightCorner(c int) int {
	return ct.Opposite(Next(c))
}

// LeftCorner returns the corner opposite the edge to the left of c.
func (ct *CornerTable) LeftCorner(c int) int {
	return ct.Opposite(Previous(c))
}

// IsOnBoundary reports whether point p touches an open edge.
func (ct *CornerTable) IsOnBoundary(p int) bool {
	c := ct.LeftMostCorner(p)
	if c == InvalidIndex {
		return true
	}
	return ct.SwingLeft(c) == InvalidIndex
}

// Faces returns the face list described by the table.
func (ct *CornerTable) Faces() []Face {
	faces := make([]Face, ct.NumFaces())
	for f := range faces {
		for k := 0; k < 3; k++ {
			faces[f][k] = uint32(ct.points[3*f+k])
		}
	}
	return faces
}

// Validate checks point ranges, opposite-link symmetry and that opposite
// corners face the same edge in reverse.
func (ct *CornerTable) Validate() error {
	for c, p := range ct.points {
		if p < 0 || int(p) >= ct.numPoints {
			return errors.Wrapf(ErrMalformedConnectivity, "corner %d maps to point %d", c, p)
		}
		o := ct.opposite[c]
		if o == InvalidIndex {
			continue
		}
		if o < 0 || int(o) >= len(ct.opposite) || int(ct.opposite[o]) != c {
			return errors.Wrapf(ErrMalformedConnectivity, "corner %d opposite %d is not symmetric", c, o)
		}
		oc := int(o)
		if ct.points[Next(c)] != ct.points[Previous(oc)] || ct.points[Previous(c)] != ct.points[Next(oc)] {
			return errors.Wrapf(ErrMalformedConnectivity, "corner %d and opposite %d do not share an edge", c, o)
		}
	}
	return nil
}

func (ct *CornerTable) setOpposite(a, b int) {
	ct.opposite[a] = int32(b)
	ct.opposite[b] = int32(a)
}

// updateLeftMost recomputes the left-most corner of every point by swinging
// left from any of its corners until a boundary or a full turn.
func (ct *CornerTable) updateLeftMost() {
	for i := range ct.leftMost {
		ct.leftMost[i] = InvalidIndex
	}
	for c := len(ct.points) - 1; c >= 0; c-- {
		if p := ct.points[c]; p >= 0 && int(p) < len(ct.leftMost) {
			ct.leftMost[p] = int32(c)
		}
	}
	for p, first := range ct.leftMost {
		if first == InvalidIndex {
			continue
		}
		c := int(first)
		for steps := 0; steps < len(ct.points); steps++ {
			l := ct.SwingLeft(c)
			if l == InvalidIndex {
				ct.leftMost[p] = int32(c)
				break
			}
			if l == int(first) {
				break
			}
			c = l
		}
	}
}
