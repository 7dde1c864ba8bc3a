package integrator

import (
	"math"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// FindHit returns the visible sphere along the ray and leaves its hit parameter in ray.T.
// Returns nil when nothing is hit.
func FindHit(ray *core.Ray, s *scene.Scene) *geometry.Sphere {
	switch s.Options.HitSelection {
	case scene.SortedFirstHit:
		return sortedFirstHit(ray, s.Objects)
	default:
		return nearestHit(ray, s.Objects)
	}
}

// nearestHit tests every object and keeps the smallest valid t
func nearestHit(ray *core.Ray, objects []*geometry.Sphere) *geometry.Sphere {
	var closest *geometry.Sphere
	closestT := math.MaxFloat64

	for _, obj := range objects {
		probe := *ray
		if obj.Intersect(&probe) && probe.T < closestT {
			closest = obj
			closestT = probe.T
		}
	}

	if closest != nil {
		ray.T = closestT
	}
	return closest
}

// sortedFirstHit orders objects by the distance of their centers from the ray origin and
// returns the first one the ray intersects. This matches nearest-hit for non-overlapping
// spheres seen head on but can pick a farther sphere on oblique rays.
func sortedFirstHit(ray *core.Ray, objects []*geometry.Sphere) *geometry.Sphere {
	ordered := append([]*geometry.Sphere(nil), objects...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Center.Distance(ray.Origin) < ordered[j].Center.Distance(ray.Origin)
	})

	for _, obj := range ordered {
		if obj.Intersect(ray) {
			return obj
		}
	}
	return nil
}

// occluded reports whether a ray from origin along direction hits any object
func occluded(origin, direction core.Vec3, objects []*geometry.Sphere) bool {
	for _, obj := range objects {
		shadow := core.NewRay(origin, direction)
		if obj.Intersect(&shadow) {
			return true
		}
	}
	return false
}
