package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool           `json:"hit"`
	MaterialType string         `json:"materialType,omitempty"`
	Point        [3]float64     `json:"point"`
	Normal       [3]float64     `json:"normal"`
	UV           [2]float64     `json:"uv"`
	Distance     float64        `json:"distance"`
	FrontFace    bool           `json:"frontFace"`
	Properties   map[string]any `json:"properties,omitempty"`
}

func vec3(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Color) string {
	clamp := func(x float64) int { return int(math.Round(min(max(x, 0), 1) * 255)) }
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.X), clamp(c.Y), clamp(c.Z))
}

// materialInfo describes a material, evaluating textures at the hit
func materialInfo(hit *material.HitRecord) (string, map[string]any) {
	properties := make(map[string]any)

	switch m := hit.Material.(type) {
	case *material.Lambertian:
		albedo := m.Albedo.Value(hit.UV, hit.Point)
		properties["albedo"] = vec3(albedo)
		properties["color"] = hexColor(albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vec3(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzz"] = m.Fuzz
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff"
		return "dielectric", properties

	case *material.DiffuseLight:
		emission := m.Emission.Value(hit.UV, hit.Point)
		properties["emission"] = vec3(emission)
		properties["color"] = hexColor(emission)
		return "light", properties

	case *material.Isotropic:
		albedo := m.Albedo.Value(hit.UV, hit.Point)
		properties["albedo"] = vec3(albedo)
		properties["color"] = hexColor(albedo)
		return "isotropic", properties

	default:
		return "unknown", properties
	}
}

// handleInspect casts the center ray of one pixel and reports the first hit
func (s *Server) handleInspect(c echo.Context) error {
	job, err := s.prepareRender(c.QueryParams())
	if err != nil {
		return c.JSON(requestErrorStatus(err), map[string]string{"error": err.Error()})
	}

	x, err := strconv.Atoi(c.QueryParam("x"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid x coordinate"})
	}
	y, err := strconv.Atoi(c.QueryParam("y"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid y coordinate"})
	}

	width, height := job.cfg.ImageWidth, job.cfg.ImageHeight()
	if x < 0 || x >= width || y < 0 || y >= height {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "pixel coordinates out of bounds"})
	}

	ray := renderer.NewCamera(job.cfg).CenterRay(x, y)
	hit, ok := job.world.Hit(ray, core.NewInterval(0.001, math.Inf(1)))
	if !ok {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	materialType, properties := materialInfo(hit)
	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		Point:        vec3(hit.Point),
		Normal:       vec3(hit.Normal),
		UV:           [2]float64{hit.UV.X, hit.UV.Y},
		Distance:     hit.Point.Subtract(ray.Origin).Length(),
		FrontFace:    hit.FrontFace,
		Properties:   properties,
	})
}
