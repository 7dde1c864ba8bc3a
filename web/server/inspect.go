package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit        bool                   `json:"hit"`
	Object     int                    `json:"object"` // index into the scene's objects, -1 on a miss
	Material   string                 `json:"material,omitempty"`
	Point      [3]float64             `json:"point"`
	Normal     [3]float64             `json:"normal"`
	Distance   float64                `json:"distance"`
	Color      core.Color             `json:"color"` // traced color of the pixel
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// extractMaterialInfo describes a material, naming the preset it matches if any
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := map[string]interface{}{
		"color":            fmt.Sprintf("#%02x%02x%02x", mat.Color.R, mat.Color.G, mat.Color.B),
		"diffuse":          mat.Albedo.Diffuse,
		"specular":         mat.Albedo.Specular,
		"reflection":       mat.Albedo.Reflection,
		"refraction":       mat.Albedo.Refraction,
		"specularExponent": mat.SpecularExponent,
		"refractiveIndex":  mat.RefractiveIndex,
	}

	for _, name := range material.PresetNames() {
		if preset, _ := material.Preset(name); preset == mat {
			return name, properties
		}
	}
	return "custom", properties
}

// extractGeometryInfo describes a sphere
func extractGeometryInfo(sphere *geometry.Sphere) map[string]interface{} {
	return map[string]interface{}{
		"center": vecArray(sphere.Center),
		"radius": sphere.Radius,
	}
}

// inspectPixel casts the primary ray through the given pixel and describes what it hits
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResponse {
	ray := renderer.PrimaryRay(pixelX, pixelY, sceneObj)
	color := integrator.NewWhitted().RayColor(ray, sceneObj)

	sphere := integrator.FindHit(&ray, sceneObj)
	if sphere == nil {
		return InspectResponse{Hit: false, Object: -1, Color: color}
	}

	point := ray.HitPoint()
	normal := sphere.Normal(point)
	materialName, materialProps := extractMaterialInfo(sphere.Material)

	object := -1
	for i, obj := range sceneObj.Objects {
		if obj == sphere {
			object = i
			break
		}
	}

	return InspectResponse{
		Hit:      true,
		Object:   object,
		Material: materialName,
		Point:    vecArray(point),
		Normal:   vecArray(normal),
		Distance: ray.T,
		Color:    color,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": extractGeometryInfo(sphere),
		},
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, err := s.parseSceneRequest(r, 0, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sceneObj, pixelX, pixelY))
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
