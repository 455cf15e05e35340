package geom

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max Vec3
}

// Size returns the box extent along each axis.
func (b Bounds) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// BoundsOf returns the box enclosing points. ok is false for an empty slice.
func BoundsOf(points [][3]float32) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b.Min = FromArray(points[0])
	b.Max = b.Min
	for _, p := range points[1:] {
		v := FromArray(p)
		b.Min = b.Min.Min(v)
		b.Max = b.Max.Max(v)
	}
	return b, true
}

// SurfaceArea sums the areas of the triangles. Faces referencing points
// outside the slice are skipped.
func SurfaceArea[F ~[3]uint32](faces []F, points [][3]float32) float32 {
	var area float32
	n := uint32(len(points))
	for _, f := range faces {
		if f[0] >= n || f[1] >= n || f[2] >= n {
			continue
		}
		a := FromArray(points[f[0]])
		e1 := FromArray(points[f[1]]).Sub(a)
		e2 := FromArray(points[f[2]]).Sub(a)
		area += e1.Cross(e2).Length() / 2
	}
	return area
}
