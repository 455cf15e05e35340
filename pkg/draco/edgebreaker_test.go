package draco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edgebreakerHeader() *Header {
	return &Header{EncoderType: EncoderTriangleMesh, Method: MethodEdgebreaker}
}

func decodeEdgebreakerBytes(t *testing.T, w *dracoWriter) (*Connectivity, error) {
	t.Helper()
	c := NewCursor(w.Bytes())
	conn, err := DecodeConnectivity(edgebreakerHeader(), c, DefaultLimits())
	if err == nil {
		assert.Equal(t, 0, c.Remaining(), "connectivity block not fully consumed")
	}
	return conn, err
}

func assertSymmetric(t *testing.T, ct *CornerTable) {
	t.Helper()
	for c := 0; c < ct.NumCorners(); c++ {
		if o := ct.Opposite(c); o != InvalidIndex {
			assert.Equal(t, c, ct.Opposite(o), "corner %d", c)
		}
	}
}

func TestDecodeEdgebreaker(t *testing.T) {
	tests := []struct {
		name      string
		numPoints int
		splits    []splitRecord
		symbols   []Symbol
		starts    []uint8
		wantFaces []Face
		wantOpp   map[int]int
	}{
		{
			name:      "single triangle",
			numPoints: 3,
			symbols:   []Symbol{SymbolE},
			starts:    []uint8{0},
			wantFaces: []Face{{0, 1, 2}},
			wantOpp:   map[int]int{},
		},
		{
			name:      "R extends on the right",
			numPoints: 4,
			symbols:   quadSymbols,
			starts:    []uint8{0},
			wantFaces: []Face{{0, 1, 2}, {2, 1, 3}},
			wantOpp:   map[int]int{0: 5},
		},
		{
			name:      "L extends on the left",
			numPoints: 4,
			symbols:   []Symbol{SymbolE, SymbolL},
			starts:    []uint8{0},
			wantFaces: []Face{{0, 1, 2}, {1, 3, 2}},
			wantOpp:   map[int]int{0: 4},
		},
		{
			name:      "C closes a fan",
			numPoints: 5,
			symbols:   fanSymbols,
			starts:    []uint8{0},
			wantFaces: []Face{{0, 1, 2}, {2, 1, 3}, {3, 1, 4}, {1, 0, 4}},
			wantOpp:   map[int]int{0: 5, 3: 8, 6: 10, 2: 11},
		},
		{
			name:      "S merges two components",
			numPoints: 5,
			symbols:   []Symbol{SymbolE, SymbolE, SymbolS},
			starts:    []uint8{0},
			wantFaces: []Face{{0, 1, 2}, {3, 2, 4}, {2, 1, 4}},
			wantOpp:   map[int]int{0: 8, 3: 7},
		},
		{
			name:      "interior start face closes a tetrahedron",
			numPoints: 4,
			symbols:   []Symbol{SymbolE, SymbolR, SymbolC},
			starts:    []uint8{1},
			wantFaces: []Face{{0, 1, 2}, {2, 1, 3}, {1, 0, 3}, {2, 3, 0}},
			wantOpp:   map[int]int{0: 5, 3: 7, 2: 8, 6: 9, 1: 10, 4: 11},
		},
		{
			// The E (encoder id 2) defers its left edge for the S (encoder id 0).
			name:      "S closes a deferred split boundary",
			numPoints: 4,
			splits:    []splitRecord{{delta: 2, offset: 2, edge: SplitLeft}},
			symbols:   []Symbol{SymbolE, SymbolR, SymbolS},
			starts:    []uint8{0},
			wantFaces: []Face{{0, 1, 2}, {2, 1, 3}, {1, 0, 3}},
			wantOpp:   map[int]int{0: 5, 2: 8, 3: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &dracoWriter{}
			w.edgebreakerSplits(tt.numPoints, len(tt.wantFaces), tt.splits, tt.symbols, tt.starts...)

			conn, err := decodeEdgebreakerBytes(t, w)
			require.NoError(t, err)
			require.NotNil(t, conn.Table)
			assert.Equal(t, tt.wantFaces, conn.Faces)
			assert.Equal(t, tt.numPoints, conn.NumPoints)
			assertSymmetric(t, conn.Table)
			require.NoError(t, conn.Table.Validate())

			linked := 0
			for c := 0; c < conn.Table.NumCorners(); c++ {
				if conn.Table.Opposite(c) != InvalidIndex {
					linked++
				}
			}
			assert.Equal(t, 2*len(tt.wantOpp), linked)
			for a, b := range tt.wantOpp {
				assert.Equal(t, b, conn.Table.Opposite(a), "opposite of corner %d", a)
			}
		})
	}
}

func TestDecodeEdgebreaker_ClosedMeshHasNoBoundary(t *testing.T) {
	w := &dracoWriter{}
	w.edgebreaker(4, 4, []Symbol{SymbolE, SymbolR, SymbolC}, 1)

	conn, err := decodeEdgebreakerBytes(t, w)
	require.NoError(t, err)
	for p := 0; p < conn.NumPoints; p++ {
		assert.False(t, conn.Table.IsOnBoundary(p), "point %d", p)
	}
}

func TestDecodeEdgebreaker_Errors(t *testing.T) {
	tests := []struct {
		name    string
		build   func(w *dracoWriter)
		wantErr error
	}{
		{
			name:    "unknown symbol",
			build:   func(w *dracoWriter) { w.edgebreaker(3, 1, []Symbol{Symbol(2)}) },
			wantErr: ErrMalformedConnectivity,
		},
		{
			name:    "stack underflow on R",
			build:   func(w *dracoWriter) { w.edgebreaker(3, 1, []Symbol{SymbolR}) },
			wantErr: ErrMalformedConnectivity,
		},
		{
			name:    "stack underflow on S",
			build:   func(w *dracoWriter) { w.edgebreaker(3, 2, []Symbol{SymbolE, SymbolS}, 0) },
			wantErr: ErrMalformedConnectivity,
		},
		{
			name:    "stack underflow on C",
			build:   func(w *dracoWriter) { w.edgebreaker(3, 1, []Symbol{SymbolC}) },
			wantErr: ErrMalformedConnectivity,
		},
		{
			name:    "more symbols than faces",
			build:   func(w *dracoWriter) { w.edgebreaker(4, 1, quadSymbols, 0) },
			wantErr: ErrMalformedConnectivity,
		},
		{
			name:    "face count mismatch",
			build:   func(w *dracoWriter) { w.edgebreaker(3, 2, []Symbol{SymbolE}, 0) },
			wantErr: ErrMalformedConnectivity,
		},
		{
			name:    "point count mismatch",
			build:   func(w *dracoWriter) { w.edgebreaker(7, 2, quadSymbols, 0) },
			wantErr: ErrMalformedConnectivity,
		},
		{
			name:    "bad start face configuration",
			build:   func(w *dracoWriter) { w.edgebreaker(3, 1, []Symbol{SymbolE}, 9) },
			wantErr: ErrMalformedConnectivity,
		},
		{
			name:    "missing start face configuration",
			build:   func(w *dracoWriter) { w.edgebreaker(3, 1, []Symbol{SymbolE}) },
			wantErr: ErrTruncated,
		},
		{
			// Two faces leave a four-edge boundary, which no single face can close.
			name:    "interior start face on a non-triangle boundary",
			build:   func(w *dracoWriter) { w.edgebreaker(4, 3, quadSymbols, 1) },
			wantErr: ErrMalformedConnectivity,
		},
		{
			name:    "face count larger than input",
			build:   func(w *dracoWriter) { w.varuint(3, 1<<20, 0, 0) },
			wantErr: ErrTruncated,
		},
		{
			name:    "split count larger than input",
			build:   func(w *dracoWriter) { w.varuint(3, 4, 4, 4).u8(0) },
			wantErr: ErrTruncated,
		},
		{
			name:    "missing symbols",
			build:   func(w *dracoWriter) { w.varuint(4, 2, 2, 0).u8(uint8(SymbolE)) },
			wantErr: ErrTruncated,
		},
		{
			name: "topology split never reached",
			build: func(w *dracoWriter) {
				// Encoder symbol 0 is the trailing C, which never opens a split.
				w.varuint(5, 4, 4, 1, 0, 0).u8(uint8(SplitRight))
				for _, s := range fanSymbols {
					w.u8(uint8(s))
				}
				w.u8(0)
			},
			wantErr: ErrMalformedConnectivity,
		},
		{
			name: "topology split offset past start",
			build: func(w *dracoWriter) {
				w.varuint(4, 2, 2, 1, 1, 3, 0).u8(uint8(SymbolE), uint8(SymbolR), 0)
			},
			wantErr: ErrMalformedConnectivity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &dracoWriter{}
			tt.build(w)
			conn, err := DecodeConnectivity(edgebreakerHeader(), NewCursor(w.Bytes()), DefaultLimits())
			assert.Nil(t, conn)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSymbol_String(t *testing.T) {
	got := ""
	for _, s := range []Symbol{SymbolC, SymbolL, SymbolE, SymbolR, SymbolS} {
		got += s.String()
	}
	assert.Equal(t, "CLERS", got)
	assert.Equal(t, "Unknown(4)", Symbol(4).String())
}
