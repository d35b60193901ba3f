package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownScene is returned when a scene name is not registered
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a built-in scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
}

type builtin struct {
	info   SceneInfo
	create func(...Config) *Scene
}

var builtins = map[string]builtin{
	"default": {
		info: SceneInfo{
			DisplayName: titleCase("default"),
			Description: "Red, blue and green spheres on a yellow ground with ambient, point and directional light",
		},
		create: NewDefaultScene,
	},
	"basic": {
		info: SceneInfo{
			DisplayName: titleCase("basic"),
			Description: "Three flat spheres under full ambient light on a white background",
		},
		create: NewBasicScene,
	},
	"mirror": {
		info: SceneInfo{
			DisplayName: titleCase("mirror"),
			Description: "Two facing reflective spheres showing bounded recursive reflection",
		},
		create: NewMirrorScene,
	},
	"spheregrid": {
		info: SceneInfo{
			DisplayName: titleCase("spheregrid"),
			Description: "Grid of OKLCH-colored spheres, every third one a mirror",
		},
		create: NewSphereGridScene,
	},
}

// ListScenes returns every built-in scene sorted by display name
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for id, b := range builtins {
		info := b.info
		info.ID = id
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes
}

// Create builds a built-in scene by name, applying optional config overrides
func Create(name string, configOverrides ...Config) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return b.create(configOverrides...), nil
}

// titleCase converts kebab-case or snake_case to Title Case
func titleCase(s string) string {
	// Replace separators with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
