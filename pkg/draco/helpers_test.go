package draco

import (
	"bytes"
	"encoding/binary"
	"math"
)

// dracoWriter builds containers for tests.
type dracoWriter struct {
	bytes.Buffer
}

func (w *dracoWriter) header(encType EncoderType, method EncoderMethod) *dracoWriter {
	w.WriteString(Magic)
	w.WriteByte(2) // major
	w.WriteByte(2) // minor
	w.WriteByte(byte(encType))
	w.WriteByte(byte(method))
	binary.Write(&w.Buffer, binary.LittleEndian, uint16(0))
	return w
}

func (w *dracoWriter) u8(vs ...uint8) *dracoWriter {
	w.Write(vs)
	return w
}

func (w *dracoWriter) u16(vs ...uint16) *dracoWriter {
	for _, v := range vs {
		binary.Write(&w.Buffer, binary.LittleEndian, v)
	}
	return w
}

func (w *dracoWriter) u32(vs ...uint32) *dracoWriter {
	for _, v := range vs {
		binary.Write(&w.Buffer, binary.LittleEndian, v)
	}
	return w
}

func (w *dracoWriter) f32(vs ...float32) *dracoWriter {
	for _, v := range vs {
		w.u32(math.Float32bits(v))
	}
	return w
}

func (w *dracoWriter) varuint(vs ...uint64) *dracoWriter {
	for _, v := range vs {
		for v >= 0x80 {
			w.WriteByte(byte(v) | 0x80)
			v >>= 7
		}
		w.WriteByte(byte(v))
	}
	return w
}

func (w *dracoWriter) varint(vs ...int64) *dracoWriter {
	for _, v := range vs {
		w.varuint(uint64(v<<1) ^ uint64(v>>63))
	}
	return w
}

// splitRecord is one encoded topology split: source id delta, offset, edge.
type splitRecord struct {
	delta, offset uint64
	edge          SplitEdge
}

// edgebreaker writes an edgebreaker connectivity block without topology splits.
func (w *dracoWriter) edgebreaker(numPoints, numFaces int, symbols []Symbol, starts ...uint8) *dracoWriter {
	return w.edgebreakerSplits(numPoints, numFaces, nil, symbols, starts...)
}

func (w *dracoWriter) edgebreakerSplits(numPoints, numFaces int, splits []splitRecord, symbols []Symbol, starts ...uint8) *dracoWriter {
	w.varuint(uint64(numPoints), uint64(numFaces), uint64(len(symbols)), uint64(len(splits)))
	for _, sp := range splits {
		w.varuint(sp.delta, sp.offset).u8(uint8(sp.edge))
	}
	for _, s := range symbols {
		w.WriteByte(byte(s))
	}
	return w.u8(starts...)
}

// attribute writes one attribute descriptor.
func (w *dracoWriter) attribute(t AttributeType, dt DataType, comps uint8, id uint64) *dracoWriter {
	w.u8(uint8(t), uint8(dt), comps, 0)
	return w.varuint(id)
}

func (w *dracoWriter) scheme(s PredictionScheme) *dracoWriter {
	return w.u8(uint8(int8(s)))
}

// fanSymbols decodes to four faces around point 1:
// [0 1 2] [2 1 3] [3 1 4] [1 0 4].
var fanSymbols = []Symbol{SymbolE, SymbolR, SymbolR, SymbolC}

// quadSymbols decodes to two faces sharing an edge: [0 1 2] [2 1 3].
var quadSymbols = []Symbol{SymbolE, SymbolR}
