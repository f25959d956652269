package loaders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
	"github.com/df07/go-bvh-pathtracer/pkg/log"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
)

var logger = log.New("loaders")

// ErrInvalidScene is wrapped by every error caused by the content of a scene description
var ErrInvalidScene = errors.New("invalid scene")

// LoadFile reads a JSON scene from disk. Image textures resolve relative to the file.
func LoadFile(path string, overrides map[string]any) (*scene.Scene, renderer.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, renderer.Config{}, fmt.Errorf("failed to read scene file: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return load(data, overrides, filepath.Dir(path), name)
}

// LoadJSON parses a JSON scene. overrides maps dotted paths such as
// "camera.vfov" or "objects.0.radius" to replacement values and is applied
// before parsing, in sorted key order.
func LoadJSON(data []byte, overrides map[string]any) (*scene.Scene, renderer.Config, error) {
	return load(data, overrides, ".", "json")
}

// ApplyOverrides patches data with each override in sorted key order
func ApplyOverrides(data []byte, overrides map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		patched, err := sjson.SetBytes(data, key, overrides[key])
		if err != nil {
			return nil, fmt.Errorf("%w: override %q: %v", ErrInvalidScene, key, err)
		}
		data = patched
	}
	return data, nil
}

func load(data []byte, overrides map[string]any, baseDir, defaultName string) (*scene.Scene, renderer.Config, error) {
	cfg := renderer.DefaultConfig()

	if !gjson.ValidBytes(data) {
		return nil, cfg, fmt.Errorf("%w: malformed JSON", ErrInvalidScene)
	}
	data, err := ApplyOverrides(data, overrides)
	if err != nil {
		return nil, cfg, err
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, cfg, fmt.Errorf("%w: top level must be an object", ErrInvalidScene)
	}

	p := &parser{baseDir: baseDir, materials: map[string]material.Material{}}

	name := defaultName
	if n := root.Get("name"); n.Exists() {
		name = n.String()
	}
	s := scene.New(name)

	if err := p.parseRender(root.Get("render"), &cfg); err != nil {
		return nil, cfg, err
	}
	if err := p.parseCamera(root.Get("camera"), &cfg); err != nil {
		return nil, cfg, err
	}
	if err := p.parseBackground(root.Get("background"), &cfg); err != nil {
		return nil, cfg, err
	}

	var materialErr error
	root.Get("materials").ForEach(func(key, value gjson.Result) bool {
		mat, err := p.parseMaterial(value, "materials."+key.String())
		if err != nil {
			materialErr = err
			return false
		}
		p.materials[key.String()] = mat
		return true
	})
	if materialErr != nil {
		return nil, cfg, materialErr
	}

	objects := root.Get("objects")
	if objects.Exists() && !objects.IsArray() {
		return nil, cfg, invalid("objects", "must be an array")
	}
	for i, object := range objects.Array() {
		path := fmt.Sprintf("objects.%d", i)
		hittable, err := p.parseObject(object, path)
		if err != nil {
			return nil, cfg, err
		}

		if !object.Get("light").Bool() {
			s.Add(hittable)
			continue
		}
		light, ok := hittable.(geometry.Sampleable)
		if !ok {
			return nil, cfg, invalid(path+".light", "a %s cannot be sampled as a light", object.Get("type").String())
		}
		s.AddLight(light)
	}

	if err := cfg.Validate(); err != nil {
		return nil, cfg, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}

	logger.Infof("loaded scene %q: %d objects, %d lights", s.Name, s.Objects.Len(), s.Lights.Len())
	return s, cfg, nil
}

func invalid(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidScene, path, fmt.Sprintf(format, args...))
}

type parser struct {
	baseDir   string
	materials map[string]material.Material
	media     uint64 // counts media so each hashes its own free-flight stream
}

func (p *parser) parseRender(r gjson.Result, cfg *renderer.Config) error {
	if !r.Exists() {
		return nil
	}
	if !r.IsObject() {
		return invalid("render", "must be an object")
	}

	fields := []field{
		{"spp", intField(&cfg.SamplesPerPixel)},
		{"depth", intField(&cfg.MaxDepth)},
		{"near", floatField(&cfg.Near)},
		{"far", floatField(&cfg.Far)},
		{"seed", func(v gjson.Result) error {
			if v.Type != gjson.Number {
				return errors.New("must be a number")
			}
			cfg.Seed = v.Int()
			return nil
		}},
		{"bvh", boolField(&cfg.ShowBVH)},
		{"mode", func(v gjson.Result) error {
			mode, err := integrator.ParseMode(v.String())
			if err != nil {
				return err
			}
			cfg.Mode = mode
			return nil
		}},
	}
	return applyFields(r, "render", fields)
}

func (p *parser) parseCamera(r gjson.Result, cfg *renderer.Config) error {
	if !r.Exists() {
		return nil
	}
	if !r.IsObject() {
		return invalid("camera", "must be an object")
	}

	fields := []field{
		{"lookfrom", vecField(&cfg.LookFrom)},
		{"lookat", vecField(&cfg.LookAt)},
		{"vup", vecField(&cfg.VUp)},
		{"vfov", floatField(&cfg.VFov)},
		{"aspect", floatField(&cfg.AspectRatio)},
		{"width", intField(&cfg.ImageWidth)},
		{"defocus", floatField(&cfg.DefocusAngle)},
		{"focus", floatField(&cfg.FocusDist)},
	}
	return applyFields(r, "camera", fields)
}

// field binds a JSON key to a config setter
type field struct {
	key string
	set func(gjson.Result) error
}

func applyFields(r gjson.Result, prefix string, fields []field) error {
	for _, f := range fields {
		value := r.Get(f.key)
		if !value.Exists() {
			continue
		}
		if err := f.set(value); err != nil {
			return invalid(prefix+"."+f.key, "%v", err)
		}
	}
	return nil
}

func intField(dst *int) func(gjson.Result) error {
	return func(v gjson.Result) error {
		if v.Type != gjson.Number {
			return errors.New("must be a number")
		}
		*dst = int(v.Int())
		return nil
	}
}

func floatField(dst *float64) func(gjson.Result) error {
	return func(v gjson.Result) error {
		if v.Type != gjson.Number {
			return errors.New("must be a number")
		}
		*dst = v.Float()
		return nil
	}
}

func boolField(dst *bool) func(gjson.Result) error {
	return func(v gjson.Result) error {
		if v.Type != gjson.True && v.Type != gjson.False {
			return errors.New("must be a boolean")
		}
		*dst = v.Bool()
		return nil
	}
}

func vecField(dst *core.Vec3) func(gjson.Result) error {
	return func(v gjson.Result) error {
		vec, err := toVec3(v)
		if err != nil {
			return err
		}
		*dst = vec
		return nil
	}
}

func toVec3(v gjson.Result) (core.Vec3, error) {
	components := v.Array()
	if !v.IsArray() || len(components) != 3 {
		return core.Vec3{}, errors.New("must be an array of 3 numbers")
	}
	for _, c := range components {
		if c.Type != gjson.Number {
			return core.Vec3{}, errors.New("must be an array of 3 numbers")
		}
	}
	return core.NewVec3(components[0].Float(), components[1].Float(), components[2].Float()), nil
}

// toColor accepts [r,g,b] or a single gray level
func toColor(v gjson.Result) (core.Color, error) {
	if v.Type == gjson.Number {
		g := v.Float()
		return core.NewVec3(g, g, g), nil
	}
	return toVec3(v)
}

// vecProp reads a required vector property of r
func vecProp(r gjson.Result, path, key string) (core.Vec3, error) {
	v := r.Get(key)
	if !v.Exists() {
		return core.Vec3{}, invalid(path+"."+key, "required")
	}
	vec, err := toVec3(v)
	if err != nil {
		return core.Vec3{}, invalid(path+"."+key, "%v", err)
	}
	return vec, nil
}

// colorProp reads a color property of r, or fallback when absent
func colorProp(r gjson.Result, path, key string, fallback core.Color) (core.Color, error) {
	v := r.Get(key)
	if !v.Exists() {
		return fallback, nil
	}
	c, err := toColor(v)
	if err != nil {
		return core.Color{}, invalid(path+"."+key, "%v", err)
	}
	return c, nil
}

// numberProp reads a required numeric property of r
func numberProp(r gjson.Result, path, key string) (float64, error) {
	v := r.Get(key)
	if !v.Exists() {
		return 0, invalid(path+"."+key, "required")
	}
	if v.Type != gjson.Number {
		return 0, invalid(path+"."+key, "must be a number")
	}
	return v.Float(), nil
}

// optionalNumberProp reads a numeric property of r, or fallback when absent
func optionalNumberProp(r gjson.Result, path, key string, fallback float64) (float64, error) {
	if !r.Get(key).Exists() {
		return fallback, nil
	}
	return numberProp(r, path, key)
}

func (p *parser) parseBackground(r gjson.Result, cfg *renderer.Config) error {
	if !r.Exists() {
		return nil
	}

	switch kind := r.Get("type").String(); kind {
	case "solid":
		c, err := colorProp(r, "background", "color", core.Color{})
		if err != nil {
			return err
		}
		cfg.Background = integrator.SolidBackground{Color: c}
	case "gradient":
		top, err := colorProp(r, "background", "top", core.NewVec3(0.5, 0.7, 1.0))
		if err != nil {
			return err
		}
		bottom, err := colorProp(r, "background", "bottom", core.NewVec3(1, 1, 1))
		if err != nil {
			return err
		}
		cfg.Background = integrator.GradientBackground{Top: top, Bottom: bottom}
	default:
		return invalid("background.type", "unknown background %q", kind)
	}
	return nil
}

// parseMaterial builds a material from an object, or resolves a string against the materials map
func (p *parser) parseMaterial(r gjson.Result, path string) (material.Material, error) {
	if r.Type == gjson.String {
		mat, ok := p.materials[r.String()]
		if !ok {
			return nil, invalid(path, "undefined material %q", r.String())
		}
		return mat, nil
	}
	if !r.IsObject() {
		return nil, invalid(path, "must be a material name or object")
	}

	switch kind := r.Get("type").String(); kind {
	case "lambertian":
		if r.Get("texture").Exists() {
			texture, err := p.parseTexture(r.Get("texture"), path+".texture")
			if err != nil {
				return nil, err
			}
			return material.NewTexturedLambertian(texture), nil
		}
		albedo, err := colorProp(r, path, "albedo", core.NewVec3(0.5, 0.5, 0.5))
		if err != nil {
			return nil, err
		}
		return material.NewLambertian(albedo), nil

	case "checker":
		texture, err := p.parseChecker(r, path)
		if err != nil {
			return nil, err
		}
		return material.NewTexturedLambertian(texture), nil

	case "metal":
		albedo, err := colorProp(r, path, "albedo", core.NewVec3(0.8, 0.8, 0.8))
		if err != nil {
			return nil, err
		}
		fuzz, err := optionalNumberProp(r, path, "fuzz", 0)
		if err != nil {
			return nil, err
		}
		return material.NewMetal(albedo, fuzz), nil

	case "dielectric":
		ior, err := optionalNumberProp(r, path, "ior", 1.5)
		if err != nil {
			return nil, err
		}
		if ior <= 0 {
			return nil, invalid(path+".ior", "must be positive, got %g", ior)
		}
		return material.NewDielectric(ior), nil

	case "light":
		emission, err := colorProp(r, path, "emission", core.NewVec3(1, 1, 1))
		if err != nil {
			return nil, err
		}
		return material.NewDiffuseLight(emission), nil

	case "isotropic":
		albedo, err := colorProp(r, path, "albedo", core.NewVec3(1, 1, 1))
		if err != nil {
			return nil, err
		}
		return material.NewIsotropic(albedo), nil

	default:
		return nil, invalid(path+".type", "unknown material %q", kind)
	}
}

func (p *parser) parseTexture(r gjson.Result, path string) (material.Texture, error) {
	switch kind := r.Get("type").String(); kind {
	case "checker":
		return p.parseChecker(r, path)
	case "image":
		file := r.Get("path").String()
		if file == "" {
			return nil, invalid(path+".path", "required")
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(p.baseDir, file)
		}
		texture, err := LoadImageTexture(file)
		if err != nil {
			return nil, invalid(path+".path", "%v", err)
		}
		return texture, nil
	case "uv":
		return material.NewUVTexture(64, 64), nil
	case "solid":
		c, err := colorProp(r, path, "color", core.NewVec3(0.5, 0.5, 0.5))
		if err != nil {
			return nil, err
		}
		return material.NewSolidColor(c), nil
	default:
		return nil, invalid(path+".type", "unknown texture %q", kind)
	}
}

func (p *parser) parseChecker(r gjson.Result, path string) (*material.CheckerTexture, error) {
	scale, err := optionalNumberProp(r, path, "scale", 1)
	if err != nil {
		return nil, err
	}
	if scale <= 0 {
		return nil, invalid(path+".scale", "must be positive, got %g", scale)
	}
	even, err := colorProp(r, path, "even", core.NewVec3(0.2, 0.3, 0.1))
	if err != nil {
		return nil, err
	}
	odd, err := colorProp(r, path, "odd", core.NewVec3(0.9, 0.9, 0.9))
	if err != nil {
		return nil, err
	}
	return material.NewCheckerColors(scale, even, odd), nil
}

// parseObject builds the primitive described by r and applies its rotate and translate
func (p *parser) parseObject(r gjson.Result, path string) (geometry.Hittable, error) {
	if !r.IsObject() {
		return nil, invalid(path, "must be an object")
	}

	object, err := p.parseShape(r, path)
	if err != nil {
		return nil, err
	}

	rotate, translate := r.Get("rotate"), r.Get("translate")
	if (rotate.Exists() || translate.Exists()) && r.Get("light").Bool() {
		return nil, invalid(path+".light", "transformed objects cannot be sampled as lights")
	}

	if rotate.Exists() {
		axis := core.NewVec3(0, 1, 0)
		if rotate.Get("axis").Exists() {
			if axis, err = vecProp(rotate, path+".rotate", "axis"); err != nil {
				return nil, err
			}
			if axis.NearZero() {
				return nil, invalid(path+".rotate.axis", "must be non-zero")
			}
		}
		angle, err := numberProp(rotate, path+".rotate", "angle")
		if err != nil {
			return nil, err
		}
		object = geometry.NewRotate(object, axis, angle)
	}
	if translate.Exists() {
		offset, err := toVec3(translate)
		if err != nil {
			return nil, invalid(path+".translate", "%v", err)
		}
		object = geometry.NewTranslate(object, offset)
	}
	return object, nil
}

func (p *parser) objectMaterial(r gjson.Result, path string) (material.Material, error) {
	m := r.Get("material")
	if !m.Exists() {
		return nil, invalid(path+".material", "required")
	}
	return p.parseMaterial(m, path+".material")
}

func (p *parser) parseShape(r gjson.Result, path string) (geometry.Hittable, error) {
	kind := r.Get("type").String()
	if kind == "medium" {
		return p.parseMedium(r, path)
	}
	if kind == "mesh" {
		return p.parseMesh(r, path)
	}

	mat, err := p.objectMaterial(r, path)
	if err != nil {
		return nil, err
	}

	// Every remaining shape is a handful of vectors and scalars
	var vecs []core.Vec3
	readVecs := func(keys ...string) error {
		for _, key := range keys {
			v, err := vecProp(r, path, key)
			if err != nil {
				return err
			}
			vecs = append(vecs, v)
		}
		return nil
	}

	switch kind {
	case "sphere":
		if err := readVecs("center"); err != nil {
			return nil, err
		}
		radius, err := numberProp(r, path, "radius")
		if err != nil {
			return nil, err
		}
		return geometry.NewSphere(vecs[0], radius, mat), nil

	case "quad":
		if err := readVecs("corner", "u", "v"); err != nil {
			return nil, err
		}
		return geometry.NewQuad(vecs[0], vecs[1], vecs[2], mat), nil

	case "triangle":
		if err := readVecs("v0", "v1", "v2"); err != nil {
			return nil, err
		}
		return geometry.NewTriangle(vecs[0], vecs[1], vecs[2], mat), nil

	case "disk":
		if r.Get("radius").Exists() {
			if err := readVecs("center", "normal"); err != nil {
				return nil, err
			}
			radius, err := numberProp(r, path, "radius")
			if err != nil {
				return nil, err
			}
			return geometry.NewCircle(vecs[0], vecs[1], radius, mat), nil
		}
		if err := readVecs("center", "u", "v"); err != nil {
			return nil, err
		}
		return geometry.NewDisk(vecs[0], vecs[1], vecs[2], mat), nil

	case "line":
		if err := readVecs("start", "end"); err != nil {
			return nil, err
		}
		radius, err := numberProp(r, path, "radius")
		if err != nil {
			return nil, err
		}
		return geometry.NewLine(vecs[0], vecs[1], radius, mat), nil

	case "box":
		if err := readVecs("min", "max"); err != nil {
			return nil, err
		}
		return geometry.NewBox(vecs[0], vecs[1], mat), nil

	case "cylinder":
		if err := readVecs("base", "top"); err != nil {
			return nil, err
		}
		radius, err := numberProp(r, path, "radius")
		if err != nil {
			return nil, err
		}
		return geometry.NewCylinder(vecs[0], vecs[1], radius, mat), nil

	case "cone":
		if err := readVecs("base", "top"); err != nil {
			return nil, err
		}
		baseRadius, err := numberProp(r, path, "base_radius")
		if err != nil {
			return nil, err
		}
		topRadius, err := optionalNumberProp(r, path, "top_radius", 0)
		if err != nil {
			return nil, err
		}
		cone, err := geometry.NewCone(vecs[0], baseRadius, vecs[1], topRadius, r.Get("capped").Bool(), mat)
		if err != nil {
			return nil, invalid(path, "%v", err)
		}
		return cone, nil

	default:
		return nil, invalid(path+".type", "unknown object %q", kind)
	}
}

func (p *parser) parseMesh(r gjson.Result, path string) (geometry.Hittable, error) {
	mat, err := p.objectMaterial(r, path)
	if err != nil {
		return nil, err
	}

	var vertices []core.Vec3
	for i, v := range r.Get("vertices").Array() {
		vertex, err := toVec3(v)
		if err != nil {
			return nil, invalid(fmt.Sprintf("%s.vertices.%d", path, i), "%v", err)
		}
		vertices = append(vertices, vertex)
	}

	var faces []int
	for i, f := range r.Get("faces").Array() {
		if f.Type != gjson.Number {
			return nil, invalid(fmt.Sprintf("%s.faces.%d", path, i), "must be a vertex index")
		}
		faces = append(faces, int(f.Int()))
	}

	mesh, err := geometry.NewTriangleMesh(vertices, faces, mat, nil)
	if err != nil {
		return nil, invalid(path, "%v", err)
	}
	return mesh, nil
}

// parseMedium fills a boundary object with smoke. Media are numbered in
// document order and the number seeds their free-flight hash.
func (p *parser) parseMedium(r gjson.Result, path string) (geometry.Hittable, error) {
	boundary := r.Get("boundary")
	if !boundary.Exists() {
		return nil, invalid(path+".boundary", "required")
	}
	// The boundary only needs a shape, give it a placeholder material if none was set
	if !boundary.Get("material").Exists() {
		patched, err := sjson.Set(boundary.Raw, "material", map[string]any{"type": "isotropic"})
		if err != nil {
			return nil, invalid(path+".boundary", "%v", err)
		}
		boundary = gjson.Parse(patched)
	}
	shape, err := p.parseObject(boundary, path+".boundary")
	if err != nil {
		return nil, err
	}

	density, err := numberProp(r, path, "density")
	if err != nil {
		return nil, err
	}
	if density <= 0 {
		return nil, invalid(path+".density", "must be positive, got %g", density)
	}
	albedo, err := colorProp(r, path, "albedo", core.NewVec3(1, 1, 1))
	if err != nil {
		return nil, err
	}

	p.media++
	return geometry.NewConstantMedium(shape, density, albedo, p.media), nil
}
