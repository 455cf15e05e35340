// Package draco decodes Draco-style compressed triangle meshes.
// Edgebreaker connectivity: CLERS symbol stream to corner table.
package draco

import (
	"fmt"

	"github.com/pkg/errors"
)

// Symbol is one Edgebreaker topology event. Values match the bit patterns
// used by the encoder.
type Symbol uint8

const (
	SymbolC Symbol = 0 // close a triangle between two boundary edges
	SymbolS Symbol = 1 // merge the two topmost active boundaries
	SymbolL Symbol = 3 // new vertex, continue on the left edge
	SymbolR Symbol = 5 // new vertex, continue on the right edge
	SymbolE Symbol = 7 // new disjoint component
)

// String returns the CLERS letter of the symbol.
func (s Symbol) String() string {
	switch s {
	case SymbolC:
		return "C"
	case SymbolS:
		return "S"
	case SymbolL:
		return "L"
	case SymbolR:
		return "R"
	case SymbolE:
		return "E"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// SplitEdge selects which edge of a face is pushed on a topology split.
type SplitEdge uint8

const (
	SplitRight SplitEdge = 0
	SplitLeft  SplitEdge = 1
)

// topologySplit pairs the symbol that opened a deferred boundary with the
// S symbol that later closes it. Ids are in encoder (reverse) order.
type topologySplit struct {
	source int
	split  int
	edge   SplitEdge
}

// edgebreakerState is the decoder state machine. Corners are allocated up
// front for every face; vertices grow as symbols create them. numFaces
// counts faces created so far and deferred maps a decoder symbol id to the
// corner of a boundary opened by a topology split.
type edgebreakerState struct {
	ct         *CornerTable
	numSymbols int
	numFaces   int
	active     []int
	splits     []topologySplit
	deferred   map[int]int
	removed    []bool
}

func decodeEdgebreaker(c *Cursor, limits Limits) (*Connectivity, error) {
	numPoints, err := c.ReadVarUint()
	if err != nil {
		return nil, errors.Wrap(err, "reading point count")
	}
	numFaces, err := c.ReadVarUint()
	if err != nil {
		return nil, errors.Wrap(err, "reading face count")
	}
	if err := limits.checkCounts(numFaces, numPoints); err != nil {
		return nil, err
	}
	numSymbols, err := c.ReadVarUint()
	if err != nil {
		return nil, errors.Wrap(err, "reading symbol count")
	}
	if numSymbols > numFaces {
		return nil, errors.Wrapf(ErrMalformedConnectivity, "%d symbols for %d faces", numSymbols, numFaces)
	}

	s := &edgebreakerState{
		numSymbols: int(numSymbols),
		deferred:   make(map[int]int),
	}
	if err := s.readSplits(c); err != nil {
		return nil, err
	}
	// Every face comes from a symbol byte or a start face byte.
	if numFaces > uint64(c.Remaining()) {
		return nil, errors.Wrapf(ErrTruncated, "%d faces, %d bytes left", numFaces, c.Remaining())
	}
	s.ct = newCornerTable(int(numFaces)*3, 0)
	for id := 0; id < s.numSymbols; id++ {
		b, err := c.ReadU8()
		if err != nil {
			return nil, errors.Wrapf(err, "reading symbol %d", id)
		}
		if err := s.apply(Symbol(b), id); err != nil {
			return nil, errors.Wrapf(err, "symbol %d (%s)", id, Symbol(b))
		}
	}
	if len(s.splits) > 0 {
		return nil, errors.Wrapf(ErrMalformedConnectivity, "%d topology splits never reached", len(s.splits))
	}
	if err := s.closeStartFaces(c); err != nil {
		return nil, err
	}
	if s.numFaces != int(numFaces) {
		return nil, errors.Wrapf(ErrMalformedConnectivity, "decoded %d faces, header says %d", s.numFaces, numFaces)
	}
	if got := s.compact(); got != int(numPoints) {
		return nil, errors.Wrapf(ErrMalformedConnectivity, "decoded %d points, header says %d", got, numPoints)
	}
	if err := s.ct.Validate(); err != nil {
		return nil, err
	}

	return &Connectivity{
		Method:    MethodEdgebreaker,
		Faces:     s.ct.Faces(),
		NumPoints: s.ct.NumPoints(),
		Table:     s.ct,
	}, nil
}

func (s *edgebreakerState) readSplits(c *Cursor) error {
	n, err := c.ReadVarUint()
	if err != nil {
		return errors.Wrap(err, "reading topology split count")
	}
	if n > uint64(s.numSymbols) {
		return errors.Wrapf(ErrMalformedConnectivity, "%d topology splits for %d symbols", n, s.numSymbols)
	}
	// A split record takes at least three bytes.
	if n > uint64(c.Remaining()/3) {
		return errors.Wrapf(ErrTruncated, "%d topology splits, %d bytes left", n, c.Remaining())
	}
	s.splits = make([]topologySplit, 0, n)
	last := uint64(0)
	for i := uint64(0); i < n; i++ {
		delta, err := c.ReadVarUint()
		if err != nil {
			return errors.Wrapf(err, "reading topology split %d", i)
		}
		offset, err := c.ReadVarUint()
		if err != nil {
			return errors.Wrapf(err, "reading topology split %d", i)
		}
		edge, err := c.ReadU8()
		if err != nil {
			return errors.Wrapf(err, "reading topology split %d", i)
		}
		source := last + delta
		if source >= uint64(s.numSymbols) || offset > source || SplitEdge(edge) > SplitLeft {
			return errors.Wrapf(ErrMalformedConnectivity, "topology split %d: source %d offset %d edge %d", i, source, offset, edge)
		}
		s.splits = append(s.splits, topologySplit{
			source: int(source),
			split:  int(source - offset),
			edge:   SplitEdge(edge),
		})
		last = source
	}
	return nil
}

// nextSplit pops the split whose source is the given encoder symbol.
func (s *edgebreakerState) nextSplit(encoderID int) (topologySplit, bool, error) {
	if len(s.splits) == 0 {
		return topologySplit{}, false, nil
	}
	top := s.splits[len(s.splits)-1]
	if top.source > encoderID {
		return topologySplit{}, false, errors.Wrapf(ErrMalformedConnectivity, "topology split source %d already passed", top.source)
	}
	if top.source != encoderID {
		return topologySplit{}, false, nil
	}
	s.splits = s.splits[:len(s.splits)-1]
	return top, true, nil
}

func (s *edgebreakerState) newFace() (int, error) {
	if s.numFaces >= s.ct.NumFaces() {
		return InvalidIndex, errors.Wrapf(ErrMalformedConnectivity, "more than %d faces", s.ct.NumFaces())
	}
	f := s.numFaces
	s.numFaces++
	return 3 * f, nil
}

func (s *edgebreakerState) addVertex() int {
	s.ct.leftMost = append(s.ct.leftMost, InvalidIndex)
	s.removed = append(s.removed, false)
	s.ct.numPoints++
	return s.ct.numPoints - 1
}

func (s *edgebreakerState) mapCorner(c, v int) {
	s.ct.points[c] = int32(v)
}

func (s *edgebreakerState) setLeftMost(v, c int) {
	s.ct.leftMost[v] = int32(c)
}

func (s *edgebreakerState) top() (int, error) {
	if len(s.active) == 0 {
		return InvalidIndex, errors.Wrap(ErrMalformedConnectivity, "active corner stack underflow")
	}
	return s.active[len(s.active)-1], nil
}

func (s *edgebreakerState) requireOpen(corners ...int) error {
	for _, c := range corners {
		if c < 0 || s.ct.Opposite(c) != InvalidIndex {
			return errors.Wrapf(ErrMalformedConnectivity, "corner %d is not on the active boundary", c)
		}
	}
	return nil
}

// apply is the transition function: one symbol creates exactly one face.
func (s *edgebreakerState) apply(sym Symbol, id int) error {
	var err error
	checkSplit := false
	switch sym {
	case SymbolC:
		err = s.applyC()
	case SymbolL, SymbolR:
		err = s.applyLR(sym)
		checkSplit = true
	case SymbolS:
		err = s.applyS(id)
	case SymbolE:
		err = s.applyE()
		checkSplit = true
	default:
		return errors.Wrapf(ErrMalformedConnectivity, "unknown symbol %d", uint8(sym))
	}
	if err != nil || !checkSplit {
		return err
	}

	encoderID := s.numSymbols - id - 1
	for {
		split, ok, err := s.nextSplit(encoderID)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		act, err := s.top()
		if err != nil {
			return err
		}
		corner := Previous(act)
		if split.edge == SplitRight {
			corner = Next(act)
		}
		s.deferred[s.numSymbols-split.split-1] = corner
	}
}

//	*-------v-------*
//	 \b    /x\    a/
//	  \   /   \   /
//	   \ /  C  \ /
//	    *.......*
func (s *edgebreakerState) applyC() error {
	a, err := s.top()
	if err != nil {
		return err
	}
	x := s.ct.Point(Next(a))
	lm := s.ct.LeftMostCorner(x)
	if lm == InvalidIndex {
		return errors.Wrapf(ErrMalformedConnectivity, "vertex %d has no corners", x)
	}
	b := Next(lm)
	if a == b {
		return errors.Wrap(ErrMalformedConnectivity, "C symbol closes onto its own edge")
	}
	if err := s.requireOpen(a, b); err != nil {
		return err
	}
	aPrev := s.ct.Point(Previous(a))
	bNext := s.ct.Point(Next(b))
	if x == aPrev || x == bNext {
		return errors.Wrap(ErrMalformedConnectivity, "C symbol creates a degenerate face")
	}
	corner, err := s.newFace()
	if err != nil {
		return err
	}
	s.ct.setOpposite(a, corner+1)
	s.ct.setOpposite(b, corner+2)
	s.mapCorner(corner, x)
	s.mapCorner(corner+1, bNext)
	s.mapCorner(corner+2, aPrev)
	s.setLeftMost(aPrev, corner+2)
	s.active[len(s.active)-1] = corner
	return nil
}

//	*-------*
//	 \  a  /
//	  \   /
//	l  \ /  r
//	    *
func (s *edgebreakerState) applyLR(sym Symbol) error {
	a, err := s.top()
	if err != nil {
		return err
	}
	if err := s.requireOpen(a); err != nil {
		return err
	}
	corner, err := s.newFace()
	if err != nil {
		return err
	}
	opp, l, r := corner+1, corner, corner+2
	if sym == SymbolR {
		opp, l, r = corner+2, corner+1, corner
	}
	s.ct.setOpposite(opp, a)
	v := s.addVertex()
	s.mapCorner(opp, v)
	s.setLeftMost(v, opp)
	vr := s.ct.Point(Previous(a))
	s.mapCorner(r, vr)
	s.setLeftMost(vr, r)
	s.mapCorner(l, s.ct.Point(Next(a)))
	s.active[len(s.active)-1] = corner
	return nil
}

//	*-------v-------*
//	 \a   p/x\n   b/
//	  \   /   \   /
//	   \ /  S  \ /
//	    *.......*
func (s *edgebreakerState) applyS(id int) error {
	b, err := s.top()
	if err != nil {
		return err
	}
	s.active = s.active[:len(s.active)-1]
	if c, ok := s.deferred[id]; ok {
		delete(s.deferred, id)
		s.active = append(s.active, c)
	}
	a, err := s.top()
	if err != nil {
		return err
	}
	if a == b {
		return errors.Wrap(ErrMalformedConnectivity, "S symbol merges an edge with itself")
	}
	if err := s.requireOpen(a, b); err != nil {
		return err
	}
	corner, err := s.newFace()
	if err != nil {
		return err
	}
	s.ct.setOpposite(a, corner+2)
	s.ct.setOpposite(b, corner+1)
	p := s.ct.Point(Previous(a))
	s.mapCorner(corner, p)
	s.mapCorner(corner+1, s.ct.Point(Next(a)))
	bPrev := s.ct.Point(Previous(b))
	s.mapCorner(corner+2, bPrev)
	s.setLeftMost(bPrev, corner+2)

	// Merge vertex n into p: remap n's corners by swinging left from b's next.
	n := Next(b)
	vn := s.ct.Point(n)
	if vn != p {
		s.setLeftMost(p, s.ct.LeftMostCorner(vn))
		first := n
		for n != InvalidIndex {
			s.mapCorner(n, p)
			n = s.ct.SwingLeft(n)
			if n == first {
				return errors.Wrap(ErrMalformedConnectivity, "S symbol merges an interior vertex")
			}
		}
		s.setLeftMost(vn, InvalidIndex)
		s.removed[vn] = true
	}
	s.active[len(s.active)-1] = corner
	return nil
}

func (s *edgebreakerState) applyE() error {
	corner, err := s.newFace()
	if err != nil {
		return err
	}
	for k := 0; k < 3; k++ {
		v := s.addVertex()
		s.mapCorner(corner+k, v)
		s.setLeftMost(v, corner+k)
	}
	s.active = append(s.active, corner)
	return nil
}

// closeStartFaces reads one configuration byte per corner left on the
// active stack. Interior start faces close their component with one more face.
//
//	      *-------p-------*
//	     / \a    . .    c/ \
//	    /   \   .   .   /   \
//	   *-----n.........x-----*
//	          \   b   /
func (s *edgebreakerState) closeStartFaces(c *Cursor) error {
	for len(s.active) > 0 {
		a := s.active[len(s.active)-1]
		s.active = s.active[:len(s.active)-1]
		cfg, err := c.ReadU8()
		if err != nil {
			return errors.Wrap(err, "reading start face configuration")
		}
		switch cfg {
		case 0:
			continue
		case 1:
		default:
			return errors.Wrapf(ErrMalformedConnectivity, "start face configuration %d", cfg)
		}

		vn := s.ct.Point(Next(a))
		lmn := s.ct.LeftMostCorner(vn)
		if lmn == InvalidIndex {
			return errors.Wrapf(ErrMalformedConnectivity, "vertex %d has no corners", vn)
		}
		b := Next(lmn)
		vx := s.ct.Point(Next(b))
		lmx := s.ct.LeftMostCorner(vx)
		if lmx == InvalidIndex {
			return errors.Wrapf(ErrMalformedConnectivity, "vertex %d has no corners", vx)
		}
		cc := Next(lmx)
		vp := s.ct.Point(Next(cc))
		if a == b || b == cc || a == cc {
			return errors.Wrap(ErrMalformedConnectivity, "interior start face reuses a boundary edge")
		}
		if err := s.requireOpen(a, b, cc); err != nil {
			return err
		}
		// The three edges must chain into the loop vn -> vx -> vp.
		if s.ct.Point(Previous(a)) != vp || s.ct.Point(Previous(b)) != vn || s.ct.Point(Previous(cc)) != vx {
			return errors.Wrap(ErrMalformedConnectivity, "interior start face boundary is not a triangle")
		}

		corner, err := s.newFace()
		if err != nil {
			return err
		}
		s.ct.setOpposite(corner, a)
		s.ct.setOpposite(corner+1, b)
		s.ct.setOpposite(corner+2, cc)
		s.mapCorner(corner, vx)
		s.mapCorner(corner+1, vp)
		s.mapCorner(corner+2, vn)
	}
	return nil
}

// compact drops merged-away vertices, renumbers the survivors in creation
// order and returns how many remain.
func (s *edgebreakerState) compact() int {
	remap := make([]int32, len(s.removed))
	n := int32(0)
	for v, gone := range s.removed {
		if gone {
			remap[v] = InvalidIndex
			continue
		}
		remap[v] = n
		n++
	}
	for c, v := range s.ct.points {
		if v >= 0 {
			s.ct.points[c] = remap[v]
		}
	}
	s.ct.numPoints = int(n)
	s.ct.leftMost = make([]int32, n)
	s.ct.updateLeftMost()
	return int(n)
}
