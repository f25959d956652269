package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
)

// Resolve finds a scene by the identifiers scene listings hand out: a
// registered builder name, "file:<name>" for <dir>/<name>.json, or a path
// ending in .json. overrides only apply to JSON scenes.
func Resolve(id, dir string, overrides map[string]any) (*scene.Scene, renderer.Config, error) {
	switch {
	case strings.HasPrefix(id, "file:"):
		base := strings.TrimPrefix(id, "file:")
		if base == "" || base != filepath.Base(base) {
			return nil, renderer.Config{}, fmt.Errorf("%w: %q", scene.ErrUnknownScene, id)
		}
		return LoadFile(filepath.Join(dir, base+".json"), overrides)

	case strings.EqualFold(filepath.Ext(id), ".json"):
		return LoadFile(id, overrides)

	default:
		cfg := renderer.DefaultConfig()
		if len(overrides) > 0 {
			return nil, cfg, fmt.Errorf("%w: overrides need a JSON scene, %q is built in", ErrInvalidScene, id)
		}
		s, err := scene.Build(id, &cfg)
		return s, cfg, err
	}
}
