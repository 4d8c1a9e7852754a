package physics

import "math"

const epsilon = 1e-9

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * (math.Pi / 180) }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * (180 / math.Pi) }

// Distance computes Euclidean distance between two points.
func Distance(a, b Vec2) float64 { return math.Hypot(b[0]-a[0], b[1]-a[1]) }

// SafeNormal returns v scaled to unit length, or the zero vector when v is (nearly) zero.
func SafeNormal(v Vec2) Vec2 {
	l := v.Len()
	if l < epsilon {
		return Vec2{}
	}
	return v.Mul(1 / l)
}

// ClampLength returns v with its magnitude capped at limit. A non-positive limit yields zero.
func ClampLength(v Vec2, limit float64) Vec2 {
	if limit <= 0 {
		return Vec2{}
	}
	l := v.Len()
	if l <= limit {
		return v
	}
	return v.Mul(limit / l)
}

// Heading returns the unit vector pointing along an orientation given in degrees.
func Heading(deg float64) Vec2 {
	rad := DegToRad(deg)
	return Vec2{math.Cos(rad), math.Sin(rad)}
}

// Bearing returns the direction from one point to another in degrees, in [-180, 180].
func Bearing(from, to Vec2) float64 {
	d := to.Sub(from)
	return RadToDeg(math.Atan2(d[1], d[0]))
}

// NormalizeDegrees maps an angle into (-180, 180].
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}
