package main

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/dracodec/pkg/draco"
	"github.com/Faultbox/dracodec/pkg/geom"
)

type reportOptions struct {
	Attributes bool
	Faces      bool
	Values     bool
	Rows       int // 0 = all
}

type meshReport struct {
	Version    string            `yaml:"version"`
	Type       string            `yaml:"type"`
	Method     string            `yaml:"method"`
	Encoding   string            `yaml:"index_encoding,omitempty"`
	NumFaces   int               `yaml:"faces"`
	NumPoints  int               `yaml:"points"`
	Bounds     *boundsReport     `yaml:"bounds,omitempty"`
	Area       float32           `yaml:"surface_area,omitempty"`
	Attributes []attributeReport `yaml:"attributes,omitempty"`
	Faces      [][3]uint32       `yaml:"face_list,omitempty,flow"`
	Truncated  bool              `yaml:"truncated,omitempty"`
}

type boundsReport struct {
	Min [3]float32 `yaml:"min,flow"`
	Max [3]float32 `yaml:"max,flow"`
}

type attributeReport struct {
	Type       string      `yaml:"type"`
	DataType   string      `yaml:"data_type"`
	Components int         `yaml:"components"`
	Normalized bool        `yaml:"normalized,omitempty"`
	UniqueID   uint32      `yaml:"unique_id"`
	Method     string      `yaml:"method"`
	Scheme     string      `yaml:"prediction"`
	Ints       [][]int32   `yaml:"values,omitempty,flow"`
	Floats     [][]float32 `yaml:"floats,omitempty,flow"`
}

func encoderTypeName(t draco.EncoderType) string {
	if t == draco.EncoderPointCloud {
		return "point cloud"
	}
	return "triangle mesh"
}

func buildReport(m *draco.Mesh, opts reportOptions) *meshReport {
	r := &meshReport{
		Version:   m.Header.Version.String(),
		Type:      encoderTypeName(m.Header.EncoderType),
		Method:    m.Header.Method.String(),
		NumFaces:  m.NumFaces(),
		NumPoints: m.NumPoints,
	}
	if m.Header.Method == draco.MethodSequential {
		r.Encoding = m.Encoding.String()
	}
	if positions := m.Positions(); positions != nil {
		if b, ok := geom.BoundsOf(positions); ok {
			r.Bounds = &boundsReport{Min: b.Min.Array(), Max: b.Max.Array()}
		}
		r.Area = geom.SurfaceArea(m.Faces, positions)
	}

	limit := func(n int) int {
		if opts.Rows > 0 && n > opts.Rows {
			r.Truncated = true
			return opts.Rows
		}
		return n
	}

	if opts.Faces {
		n := limit(len(m.Faces))
		r.Faces = make([][3]uint32, n)
		for i := 0; i < n; i++ {
			r.Faces[i] = m.Faces[i]
		}
	}

	if !opts.Attributes {
		return r
	}
	for _, a := range m.Attributes {
		ar := attributeReport{
			Type:       a.Descriptor.Type.String(),
			DataType:   a.Descriptor.DataType.String(),
			Components: int(a.Descriptor.NumComponents),
			Normalized: a.Descriptor.Normalized,
			UniqueID:   a.Descriptor.UniqueID,
			Method:     a.Method.String(),
			Scheme:     a.Scheme.String(),
		}
		if opts.Values {
			n := limit(m.NumPoints)
			if a.Floats != nil {
				ar.Floats = make([][]float32, n)
				for p := 0; p < n; p++ {
					ar.Floats[p] = a.Floats[p*a.FloatComponents : (p+1)*a.FloatComponents]
				}
			} else {
				ar.Ints = make([][]int32, n)
				for p := 0; p < n; p++ {
					ar.Ints[p] = a.Values[p*a.Components : (p+1)*a.Components]
				}
			}
		}
		r.Attributes = append(r.Attributes, ar)
	}
	return r
}

func render(w io.Writer, format string, r *meshReport) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	return renderText(w, r)
}

func renderText(w io.Writer, r *meshReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Draco:    %s (%s)\n", r.Version, r.Type)
	if r.Encoding != "" {
		fmt.Fprintf(&b, "Method:   %s, %s indices\n", r.Method, r.Encoding)
	} else {
		fmt.Fprintf(&b, "Method:   %s\n", r.Method)
	}
	fmt.Fprintf(&b, "Faces:    %d\n", r.NumFaces)
	fmt.Fprintf(&b, "Points:   %d\n", r.NumPoints)
	if r.Bounds != nil {
		fmt.Fprintf(&b, "Bounds:   %v - %v\n", r.Bounds.Min, r.Bounds.Max)
		fmt.Fprintf(&b, "Area:     %g\n", r.Area)
	}

	if len(r.Faces) > 0 {
		b.WriteString("\nFaces:\n")
		for i, f := range r.Faces {
			fmt.Fprintf(&b, "  %6d  %d %d %d\n", i, f[0], f[1], f[2])
		}
	}

	for i, a := range r.Attributes {
		fmt.Fprintf(&b, "\nAttribute %d: %s %s x%d (id %d)\n", i, a.Type, a.DataType, a.Components, a.UniqueID)
		fmt.Fprintf(&b, "  method %s, prediction %s\n", a.Method, a.Scheme)
		for p, v := range a.Ints {
			fmt.Fprintf(&b, "  %6d  %v\n", p, v)
		}
		for p, v := range a.Floats {
			fmt.Fprintf(&b, "  %6d  %v\n", p, v)
		}
	}

	if r.Truncated {
		b.WriteString("\n(output truncated, use -n 0 for all rows)\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
