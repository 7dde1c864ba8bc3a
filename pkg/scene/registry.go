package scene

import (
	"fmt"
	"sort"
)

type builtin struct {
	info    SceneInfo
	factory func() *Scene
}

var builtins = map[string]builtin{
	"default": {
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			DisplayName: "Default Scene",
			Description: "Ivory, glass, rubber and mirror spheres under three lights",
		},
		factory: NewDefaultScene,
	},
	"classic": {
		info: SceneInfo{
			ID:          "classic",
			Name:        "Classic",
			DisplayName: "Classic",
			Description: "Two spheres and one distant light with sorted hit selection",
		},
		factory: NewClassicScene,
	},
	"single-sphere": {
		info: SceneInfo{
			ID:          "single-sphere",
			Name:        "Single Sphere",
			DisplayName: "Single Sphere",
			Description: "One matte white sphere lit from the camera",
		},
		factory: func() *Scene { return NewSingleSphereScene(DefaultWidth, DefaultHeight) },
	},
}

// ByName creates a fresh copy of a built-in scene
func ByName(name string) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	return b.factory(), nil
}

// Names lists the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// builtinInfos returns the metadata of every built-in scene, sorted by ID
func builtinInfos() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for _, name := range Names() {
		info := builtins[name].info
		info.Group = BuiltinGroup
		info.Type = "builtin"
		infos = append(infos, info)
	}
	return infos
}
