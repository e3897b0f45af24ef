package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// masToRad converts milliarcseconds to radians.
const masToRad = math.Pi / (180 * 3600 * 1000)

// PlateRotation is a plate's Euler rotation vector in radians per year.
type PlateRotation struct {
	Wx, Wy, Wz float64
}

// DefaultPlateRotation is the ITRF2014 Eurasian plate pole
// (Altamimi et al. 2017): -0.085, -0.531, 0.770 mas/yr.
var DefaultPlateRotation = PlateRotationMas(-0.085, -0.531, 0.770)

// PlateRotationMas builds a PlateRotation from components in mas/yr.
func PlateRotationMas(x, y, z float64) PlateRotation {
	return PlateRotation{Wx: x * masToRad, Wy: y * masToRad, Wz: z * masToRad}
}

// ParsePlateRotationMas parses "x,y,z" in mas/yr.
func ParsePlateRotationMas(s string) (PlateRotation, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return PlateRotation{}, fmt.Errorf("plate pole %q: want 3 comma-separated components", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return PlateRotation{}, fmt.Errorf("plate pole %q: %w", s, err)
		}
		v[i] = f
	}
	return PlateRotationMas(v[0], v[1], v[2]), nil
}

// Velocity returns the plate motion at pos in metres per year (ω × r).
// A zero position yields a zero velocity.
func (w PlateRotation) Velocity(pos Coord) Coord {
	return Coord{
		X: w.Wy*pos.Z - w.Wz*pos.Y,
		Y: w.Wz*pos.X - w.Wx*pos.Z,
		Z: w.Wx*pos.Y - w.Wy*pos.X,
	}
}
