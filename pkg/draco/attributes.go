// Package draco decodes Draco-style compressed triangle meshes.
package draco

import (
	"fmt"

	"github.com/pkg/errors"
)

// AttributeType is the semantic of an attribute.
type AttributeType uint8

const (
	AttributePosition AttributeType = 0
	AttributeNormal   AttributeType = 1
	AttributeColor    AttributeType = 2
	AttributeTexCoord AttributeType = 3
	AttributeGeneric  AttributeType = 4
)

// String returns a human-readable attribute type name.
func (t AttributeType) String() string {
	switch t {
	case AttributePosition:
		return "Position"
	case AttributeNormal:
		return "Normal"
	case AttributeColor:
		return "Color"
	case AttributeTexCoord:
		return "TexCoord"
	case AttributeGeneric:
		return "Generic"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// DataType is the storage type of attribute components.
type DataType uint8

const (
	DataInvalid DataType = iota
	DataInt8
	DataUint8
	DataInt16
	DataUint16
	DataInt32
	DataUint32
	DataInt64
	DataUint64
	DataFloat32
	DataFloat64
	DataBool
)

var dataTypeNames = [...]string{
	"Invalid", "Int8", "Uint8", "Int16", "Uint16", "Int32", "Uint32",
	"Int64", "Uint64", "Float32", "Float64", "Bool",
}

// String returns a human-readable data type name.
func (t DataType) String() string {
	if int(t) < len(dataTypeNames) {
		return dataTypeNames[t]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(t))
}

// IsFloat reports whether t is a floating point type.
func (t DataType) IsFloat() bool {
	return t == DataFloat32 || t == DataFloat64
}

// DecodingMethod is how portable integer values map back to attribute values.
type DecodingMethod uint8

const (
	DecodingGeneric      DecodingMethod = 0
	DecodingInteger      DecodingMethod = 1
	DecodingQuantization DecodingMethod = 2
	DecodingNormals      DecodingMethod = 3
)

// String returns a human-readable decoding method name.
func (m DecodingMethod) String() string {
	switch m {
	case DecodingGeneric:
		return "Generic"
	case DecodingInteger:
		return "Integer"
	case DecodingQuantization:
		return "Quantization"
	case DecodingNormals:
		return "Normals"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(m))
	}
}

// DecoderType says whether a group's values live on points or corners.
type DecoderType uint8

const (
	DecoderVertex DecoderType = 0
	DecoderCorner DecoderType = 1
)

// AttributeDescriptor describes one encoded attribute.
type AttributeDescriptor struct {
	Type          AttributeType
	DataType      DataType
	NumComponents uint8
	Normalized    bool
	UniqueID      uint32
}

// AttributeGroup is a set of attributes sharing one sequencing pass.
type AttributeGroup struct {
	DataID      uint8
	DecoderType DecoderType
	Traversal   TraversalMethod
	Attributes  []AttributeDescriptor
	Methods     []DecodingMethod
}

// portableComponents returns how many residuals each encoded value of
// attribute i carries.
func (g *AttributeGroup) portableComponents(i int) int {
	if g.Methods[i] == DecodingNormals {
		return 2
	}
	return int(g.Attributes[i].NumComponents)
}

// ParseAttributeGroups reads the attribute decoder section.
func ParseAttributeGroups(h *Header, c *Cursor, limits Limits) ([]*AttributeGroup, error) {
	n, err := c.ReadU8()
	if err != nil {
		return nil, errors.Wrap(err, "reading attribute group count")
	}
	groups := make([]*AttributeGroup, n)
	for i := range groups {
		groups[i] = &AttributeGroup{}
	}

	if h.Method == MethodEdgebreaker {
		for i, g := range groups {
			var raw [3]uint8
			for k := range raw {
				if raw[k], err = c.ReadU8(); err != nil {
					return nil, errors.Wrapf(err, "reading attribute group %d decoder data", i)
				}
			}
			g.DataID = raw[0]
			g.DecoderType = DecoderType(raw[1])
			g.Traversal = TraversalMethod(raw[2])
			if g.DecoderType != DecoderVertex {
				return nil, errors.Wrapf(ErrUnsupportedFeature, "attribute group %d decoder type %d", i, raw[1])
			}
		}
	}

	for i, g := range groups {
		if err := parseAttributeGroup(g, c, limits); err != nil {
			return nil, errors.Wrapf(err, "attribute group %d", i)
		}
	}
	return groups, nil
}

func parseAttributeGroup(g *AttributeGroup, c *Cursor, limits Limits) error {
	count, err := c.ReadVarUint()
	if err != nil {
		return errors.Wrap(err, "reading attribute count")
	}
	// Every descriptor takes at least five bytes.
	if count > uint64(c.Remaining()/5) {
		return errors.Wrapf(ErrTruncated, "%d attributes, %d bytes left", count, c.Remaining())
	}

	g.Attributes = make([]AttributeDescriptor, count)
	for i := range g.Attributes {
		a := &g.Attributes[i]
		var raw [4]uint8
		for k := range raw {
			if raw[k], err = c.ReadU8(); err != nil {
				return errors.Wrapf(err, "reading attribute %d", i)
			}
		}
		a.Type = AttributeType(raw[0])
		a.DataType = DataType(raw[1])
		a.NumComponents = raw[2]
		a.Normalized = raw[3] != 0
		if a.UniqueID, err = readVarUintAs[uint32](c, "attribute unique id", ErrInvalidHeader); err != nil {
			return err
		}
		if a.DataType == DataInvalid || a.DataType > DataBool {
			return errors.Wrapf(ErrInvalidHeader, "attribute %d data type %d", i, raw[1])
		}
		if a.NumComponents == 0 || (limits.MaxComponents > 0 && int(a.NumComponents) > limits.MaxComponents) {
			return errors.Wrapf(ErrInvalidHeader, "attribute %d has %d components", i, a.NumComponents)
		}
	}

	g.Methods = make([]DecodingMethod, count)
	for i := range g.Methods {
		m, err := c.ReadU8()
		if err != nil {
			return errors.Wrapf(err, "reading decoding method of attribute %d", i)
		}
		g.Methods[i] = DecodingMethod(m)
		switch g.Methods[i] {
		case DecodingGeneric, DecodingInteger:
			if g.Attributes[i].DataType.IsFloat() {
				return errors.Wrapf(ErrUnsupportedFeature, "attribute %d: %s values need quantization", i, g.Attributes[i].DataType)
			}
		case DecodingQuantization:
		case DecodingNormals:
			if g.Attributes[i].NumComponents != 3 {
				return errors.Wrapf(ErrInvalidHeader, "normal attribute %d has %d components", i, g.Attributes[i].NumComponents)
			}
		default:
			return errors.Wrapf(ErrUnsupportedFeature, "attribute %d decoding method %s", i, g.Methods[i])
		}
	}
	return nil
}

// DecodedAttribute holds the reconstructed values of one attribute, indexed
// by point.
type DecodedAttribute struct {
	Descriptor AttributeDescriptor
	Method     DecodingMethod
	Scheme     PredictionScheme

	// Components is the number of int32 values per point in Values.
	Components int
	Values     []int32

	// FloatComponents and Floats are set for quantized and normal attributes.
	FloatComponents int
	Floats          []float32
}

// Int returns component k of point p.
func (a *DecodedAttribute) Int(p, k int) int32 {
	return a.Values[p*a.Components+k]
}

// Float returns component k of point p of a dequantized attribute.
func (a *DecodedAttribute) Float(p, k int) float32 {
	return a.Floats[p*a.FloatComponents+k]
}

// decodeGroup reads the prediction-coded values and then the transform
// data of every attribute in the group.
func decodeGroup(g *AttributeGroup, seq *SequenceMap, conn *Connectivity, c *Cursor, newResiduals ResidualDecoderFunc) ([]*DecodedAttribute, error) {
	out := make([]*DecodedAttribute, len(g.Attributes))
	for i := range g.Attributes {
		raw, err := c.ReadI8()
		if err != nil {
			return nil, errors.Wrapf(err, "reading prediction scheme of attribute %d", i)
		}
		scheme := PredictionScheme(raw)
		comps := g.portableComponents(i)
		values, err := decodeValues(scheme, comps, seq, conn.Table, newResiduals(c))
		if err != nil {
			return nil, errors.Wrapf(err, "attribute %d (%s)", i, g.Attributes[i].Type)
		}
		out[i] = &DecodedAttribute{
			Descriptor: g.Attributes[i],
			Method:     g.Methods[i],
			Scheme:     scheme,
			Components: comps,
			Values:     scatter(values, comps, seq, conn.NumPoints),
		}
	}

	for i, a := range out {
		var err error
		switch a.Method {
		case DecodingQuantization:
			err = dequantize(a, c)
		case DecodingNormals:
			err = decodeNormals(a, c)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "transform of attribute %d (%s)", i, a.Descriptor.Type)
		}
	}
	return out, nil
}

// scatter moves values from sequence order to point order.
func scatter(values []int32, comps int, seq *SequenceMap, numPoints int) []int32 {
	out := make([]int32, numPoints*comps)
	for i := 0; i < seq.Len(); i++ {
		p := seq.Point(i)
		copy(out[p*comps:(p+1)*comps], values[i*comps:(i+1)*comps])
	}
	return out
}
