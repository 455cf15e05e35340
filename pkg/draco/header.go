// Package draco decodes Draco-style compressed triangle meshes.
// Container header: magic, version, encoder type and method.
package draco

import (
	"fmt"

	"github.com/pkg/errors"
)

// Magic is the signature every container starts with.
const Magic = "DRACO"

// HeaderLength is the size of the fixed container prefix.
const HeaderLength = 11

// EncoderMethod selects how connectivity was encoded.
type EncoderMethod uint8

const (
	MethodSequential  EncoderMethod = 0
	MethodEdgebreaker EncoderMethod = 1
)

// String returns a human-readable method name.
func (m EncoderMethod) String() string {
	switch m {
	case MethodSequential:
		return "Sequential"
	case MethodEdgebreaker:
		return "Edgebreaker"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(m))
	}
}

// EncoderType is the kind of geometry in the container.
type EncoderType uint8

const (
	EncoderPointCloud   EncoderType = 0
	EncoderTriangleMesh EncoderType = 1
)

// Version is the container format version.
type Version struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Header is the parsed fixed-size container prefix.
type Header struct {
	Version     Version
	EncoderType EncoderType
	Method      EncoderMethod
	Flags       uint16
}

// ParseHeader reads and validates the 11-byte header.
func ParseHeader(c *Cursor) (*Header, error) {
	magic, err := c.ReadBytes(len(Magic))
	if err != nil {
		return nil, errors.Wrap(err, "reading magic")
	}
	if string(magic) != Magic {
		return nil, errors.Wrapf(ErrInvalidHeader, "bad magic %q", magic)
	}

	var raw [4]uint8
	for i := range raw {
		if raw[i], err = c.ReadU8(); err != nil {
			return nil, errors.Wrap(err, "reading header")
		}
	}
	flags, err := c.ReadU16()
	if err != nil {
		return nil, errors.Wrap(err, "reading header flags")
	}

	h := &Header{
		Version:     Version{Major: raw[0], Minor: raw[1]},
		EncoderType: EncoderType(raw[2]),
		Method:      EncoderMethod(raw[3]),
		Flags:       flags,
	}
	if h.EncoderType != EncoderPointCloud && h.EncoderType != EncoderTriangleMesh {
		return nil, errors.Wrapf(ErrInvalidHeader, "encoder type %d", raw[2])
	}
	if h.Method != MethodSequential && h.Method != MethodEdgebreaker {
		return nil, errors.Wrapf(ErrInvalidHeader, "encoder method %s", h.Method)
	}
	return h, nil
}
