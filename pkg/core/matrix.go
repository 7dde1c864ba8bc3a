package core

import "math"

// Mat3 is a row-major 3x3 matrix
type Mat3 [3][3]float64

// Identity3 returns the identity matrix
func Identity3() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Multiply returns the matrix product m * other
func (m Mat3) Multiply(other Mat3) Mat3 {
	var result Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				result[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return result
}

// Apply returns m * v
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// RotationMatrix builds Rz * Ry * Rx from angles in degrees about each axis
func RotationMatrix(degrees Vec3) Mat3 {
	if degrees.IsZero() {
		return Identity3()
	}

	ax := degrees.X * math.Pi / 180.0
	ay := degrees.Y * math.Pi / 180.0
	az := degrees.Z * math.Pi / 180.0

	rx := Mat3{
		{1, 0, 0},
		{0, math.Cos(ax), -math.Sin(ax)},
		{0, math.Sin(ax), math.Cos(ax)},
	}
	ry := Mat3{
		{math.Cos(ay), 0, math.Sin(ay)},
		{0, 1, 0},
		{-math.Sin(ay), 0, math.Cos(ay)},
	}
	rz := Mat3{
		{math.Cos(az), -math.Sin(az), 0},
		{math.Sin(az), math.Cos(az), 0},
		{0, 0, 1},
	}

	return rz.Multiply(ry.Multiply(rx))
}
