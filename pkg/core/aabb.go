package core

import "math"

// minAABBWidth is the smallest extent an AABB is padded to along any axis
const minAABBWidth = 0.0001

// AABB represents an axis-aligned bounding box as one interval per axis
type AABB struct {
	X, Y, Z Interval
}

// EmptyAABB bounds nothing
var EmptyAABB = AABB{X: EmptyInterval, Y: EmptyInterval, Z: EmptyInterval}

// NewAABB creates an AABB from per-axis intervals
func NewAABB(x, y, z Interval) AABB {
	return AABB{X: x, Y: y, Z: z}
}

// NewAABBFromPoints creates an AABB that bounds all given points, regardless of their order
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return EmptyAABB
	}

	lo := points[0]
	hi := points[0]
	for _, p := range points[1:] {
		lo = Vec3{math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z)}
		hi = Vec3{math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z)}
	}

	return AABB{
		X: Interval{lo.X, hi.X},
		Y: Interval{lo.Y, hi.Y},
		Z: Interval{lo.Z, hi.Z},
	}
}

// NewAABBEnclosing returns the union of two boxes
func NewAABBEnclosing(a, b AABB) AABB {
	return AABB{
		X: NewIntervalEnclosing(a.X, b.X),
		Y: NewIntervalEnclosing(a.Y, b.Y),
		Z: NewIntervalEnclosing(a.Z, b.Z),
	}
}

// Axis returns the interval for axis 0 (X), 1 (Y) or 2 (Z)
func (aabb AABB) Axis(n int) Interval {
	switch n {
	case 1:
		return aabb.Y
	case 2:
		return aabb.Z
	default:
		return aabb.X
	}
}

// Hit tests if a ray intersects the box within rayT using the slab method.
// A zero direction component is treated as a ray parallel to that slab.
func (aabb AABB) Hit(ray Ray, rayT Interval) bool {
	tMin, tMax := rayT.Min, rayT.Max

	for axis := 0; axis < 3; axis++ {
		slab := aabb.Axis(axis)
		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)

		if direction == 0 {
			if origin < slab.Min || origin > slab.Max {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t0 := (slab.Min - origin) * invDirection
		t1 := (slab.Max - origin) * invDirection
		if t0 > t1 {
			t0, t1 = t1, t0
		}

		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}

		if tMax <= tMin {
			return false
		}
	}

	return true
}

// Pad returns a box where no axis is narrower than minAABBWidth
func (aabb AABB) Pad() AABB {
	pad := func(i Interval) Interval {
		if i.Size() < minAABBWidth {
			return i.Expand(minAABBWidth)
		}
		return i
	}
	return AABB{X: pad(aabb.X), Y: pad(aabb.Y), Z: pad(aabb.Z)}
}

// Translate returns the box moved by offset
func (aabb AABB) Translate(offset Vec3) AABB {
	return AABB{
		X: aabb.X.Shift(offset.X),
		Y: aabb.Y.Shift(offset.Y),
		Z: aabb.Z.Shift(offset.Z),
	}
}

// Min returns the minimum corner
func (aabb AABB) Min() Vec3 {
	return Vec3{aabb.X.Min, aabb.Y.Min, aabb.Z.Min}
}

// Max returns the maximum corner
func (aabb AABB) Max() Vec3 {
	return Vec3{aabb.X.Max, aabb.Y.Max, aabb.Z.Max}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min().Add(aabb.Max()).Multiply(0.5)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	x, y, z := aabb.X.Size(), aabb.Y.Size(), aabb.Z.Size()
	if x > y && x > z {
		return 0
	}
	if y > z {
		return 1
	}
	return 2
}

// Corners returns the 8 corners of the box. Bit 0 of the index selects
// max X, bit 1 max Y, bit 2 max Z.
func (aabb AABB) Corners() [8]Vec3 {
	var corners [8]Vec3
	for i := range corners {
		corners[i] = Vec3{
			X: pick(i&1 != 0, aabb.X),
			Y: pick(i&2 != 0, aabb.Y),
			Z: pick(i&4 != 0, aabb.Z),
		}
	}
	return corners
}

func pick(useMax bool, i Interval) float64 {
	if useMax {
		return i.Max
	}
	return i.Min
}

// IsFinite reports whether every bound is a finite number
func (aabb AABB) IsFinite() bool {
	for axis := 0; axis < 3; axis++ {
		i := aabb.Axis(axis)
		if math.IsInf(i.Min, 0) || math.IsInf(i.Max, 0) || math.IsNaN(i.Min) || math.IsNaN(i.Max) {
			return false
		}
	}
	return true
}
