package gamemath

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ApproachZero reduces a timer toward zero by dt without overshooting.
func ApproachZero(v, dt float64) float64 {
	if v <= dt {
		return 0
	}
	return v - dt
}

// YawBasis returns the world-space forward and right axes for a yaw angle in
// degrees. Pitch and roll never enter: the basis always lies in the ground
// plane. Yaw 0 faces +X and right is -Y (right-handed, Z up).
func YawBasis(yawDeg float64) (forward, right Vec3) {
	rad := yawDeg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	forward = Vec3{X: cos, Y: sin}
	right = Vec3{X: sin, Y: -cos}
	return forward, right
}

// SphereInertia returns the moment of inertia of a solid sphere.
func SphereInertia(mass, radius float64) float64 {
	return 0.4 * mass * radius * radius
}

// CircleOverlapsRect reports whether a circle centred at (cx, cy) overlaps the
// axis-aligned rectangle (x, y, w, h).
func CircleOverlapsRect(cx, cy, r, x, y, w, h float64) bool {
	nx := Clamp(cx, x, x+w)
	ny := Clamp(cy, y, y+h)
	dx := cx - nx
	dy := cy - ny
	return dx*dx+dy*dy <= r*r
}
