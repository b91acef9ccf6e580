package vehicle

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Headings are in degrees, 0 points up the screen (-Y) and positive angles
// turn clockwise, matching a y-down world.

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// forwardVector returns the unit vector a car with the given heading faces.
func forwardVector(heading float64) r2.Vec {
	s, c := math.Sincos(degToRad(heading))
	return r2.Vec{X: s, Y: -c}
}

// rightVector returns the unit vector to the car's right.
func rightVector(heading float64) r2.Vec {
	s, c := math.Sincos(degToRad(heading))
	return r2.Vec{X: c, Y: s}
}

// headingTo returns the heading that points along d.
func headingTo(d r2.Vec) float64 {
	return radToDeg(math.Atan2(d.X, -d.Y))
}

// wrapDegrees maps a to [-180, 180).
func wrapDegrees(a float64) float64 {
	a = math.Mod(a+180, 360)
	if a < 0 {
		a += 360
	}
	return a - 180
}

// wrapHeading maps a to [0, 360).
func wrapHeading(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// withSpeed returns v rescaled to the given magnitude. A zero vector stays zero.
func withSpeed(v r2.Vec, speed float64) r2.Vec {
	n := r2.Norm(v)
	if n < 1e-9 || speed <= 0 {
		return r2.Vec{}
	}
	return r2.Scale(speed/n, v)
}
