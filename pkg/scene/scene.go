package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/log"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/pdf"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

var logger = log.New("scene")

// ErrUnknownScene is returned by Build for unregistered names
var ErrUnknownScene = errors.New("unknown scene")

// Scene holds the primitives of a world and the subset sampled as lights
type Scene struct {
	Name    string
	Objects *geometry.HittableList // Everything rays can hit, lights included
	Lights  *geometry.HittableList // Emitters used for light sampling
}

// New creates an empty scene
func New(name string) *Scene {
	return &Scene{
		Name:    name,
		Objects: geometry.NewHittableList(),
		Lights:  geometry.NewHittableList(),
	}
}

// Add appends objects to the world
func (s *Scene) Add(objects ...geometry.Hittable) {
	for _, object := range objects {
		s.Objects.Add(object)
	}
}

// AddLight adds an emitter to the world and to the light list
func (s *Scene) AddLight(light geometry.Sampleable) {
	s.Objects.Add(light)
	s.Lights.Add(light)
}

// AddQuadLight adds a rectangular area light to the scene
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Color) *geometry.Quad {
	quad := geometry.NewQuad(corner, u, v, material.NewDiffuseLight(emission))
	s.AddLight(quad)
	return quad
}

// AddDiskLight adds an elliptical area light centered at center with half-axes u and v
func (s *Scene) AddDiskLight(center, u, v core.Vec3, emission core.Color) *geometry.Disk {
	disk := geometry.NewDisk(center, u, v, material.NewDiffuseLight(emission))
	s.AddLight(disk)
	return disk
}

// AddSphereLight adds a spherical light to the scene
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Color) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius, material.NewDiffuseLight(emission))
	s.AddLight(sphere)
	return sphere
}

// NewGroundQuad creates a large horizontal quad centered at center, standing in for an infinite plane
func NewGroundQuad(center core.Vec3, size float64, mat material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	return geometry.NewQuad(corner, core.NewVec3(size, 0, 0), core.NewVec3(0, 0, size), mat)
}

// World builds the BVH over the scene's objects. The returned light source
// is nil when the scene has no lights.
func (s *Scene) World() (*geometry.BVHNode, pdf.Source, error) {
	bvh, err := geometry.NewBVH(s.Objects.Objects())
	if err != nil {
		return nil, nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}
	return bvh, s.Lights.AsLightSource(), nil
}

// Builder populates a scene and adjusts the render config for it
type Builder func(cfg *renderer.Config, s *Scene) error

type registration struct {
	description string
	build       Builder
}

var registry = map[string]registration{}

// Register makes a builder available under name. Registering a name twice panics.
func Register(name, description string, build Builder) {
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("scene: %q registered twice", name))
	}
	registry[name] = registration{description: description, build: build}
}

// Build runs the named builder against cfg
func Build(name string, cfg *renderer.Config) (*Scene, error) {
	reg, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}

	s := New(name)
	if err := reg.build(cfg, s); err != nil {
		return nil, fmt.Errorf("building scene %q: %w", name, err)
	}
	return s, nil
}

// Names returns the registered scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Description returns the registered description for name
func Description(name string) string {
	return registry[name].description
}

func init() {
	Register("sandbox", "Checker ground, glass, diffuse and mirror spheres under a quad light", NewSandboxScene)
	Register("sandbox-disk", "The sandbox lit by a disk light", NewSandboxDiskScene)
	Register("two-spheres", "A sphere on a ground sphere lit only by the sky", NewTwoSpheresScene)
	Register("cornell", "Cornell box with two rotated boxes", NewCornellScene)
	Register("cornell-smoke", "Cornell box with boxes of smoke and fog", NewCornellSmokeScene)
	Register("spheregrid", "Grid of colored metal spheres for BVH stress", NewSphereGridScene)
	Register("lines", "Capsule lines and triangles", NewLinesScene)
}
