package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// SurfaceOffset is the distance ray origins are pushed off a surface to avoid shadow acne
const SurfaceOffset = 1e-3

// totalInternalReflection is returned by Refract when no refracted ray exists
var totalInternalReflection = core.NewVec3(1, 0, 0)

// Reflect mirrors v about the normal n: r = v - 2*dot(v,n)*n
func Reflect(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract bends the unit direction v through a surface with normal n using Snell's law.
// etaT is the index of the medium the normal points away from, etaI the index on the
// normal's side. When v exits the medium the normal is flipped and the indices swapped.
// Total internal reflection yields the fixed direction (1,0,0).
func Refract(v, n core.Vec3, etaT, etaI float64) core.Vec3 {
	cosi := -math.Max(-1, math.Min(1, v.Dot(n)))
	if cosi < 0 {
		// inside the object: flip the normal and swap the media
		return Refract(v, n.Negate(), etaI, etaT)
	}

	eta := etaI / etaT
	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return totalInternalReflection
	}
	return v.Multiply(eta).Add(n.Multiply(eta*cosi - math.Sqrt(k)))
}

// OffsetFromSurface nudges point along the normal to the side the direction leaves through
func OffsetFromSurface(direction, normal, point core.Vec3) core.Vec3 {
	if direction.Dot(normal) < 0 {
		return point.Subtract(normal.Multiply(SurfaceOffset))
	}
	return point.Add(normal.Multiply(SurfaceOffset))
}
