package loaders

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// SceneDocument is the on-disk JSON form of a scene
type SceneDocument struct {
	Name    string           `json:"name,omitempty"`
	Camera  core.Vec3        `json:"camera"`
	Spheres []SphereDocument `json:"spheres"`
	Lights  []lights.Spec    `json:"lights"`
	Config  ConfigDocument   `json:"config"`
}

// SphereDocument is the JSON form of a sphere
type SphereDocument struct {
	Center     core.Vec3  `json:"center"`
	Radius     float64    `json:"radius"`
	Color      core.Color `json:"color"`
	Specular   float64    `json:"specular"`
	Reflective float64    `json:"reflective"`
}

// ConfigDocument holds config overrides. Zero or missing fields keep scene.DefaultConfig values;
// pointer fields distinguish an explicit zero from a missing value.
type ConfigDocument struct {
	Width            int         `json:"width,omitempty"`
	Height           int         `json:"height,omitempty"`
	ViewportWidth    float64     `json:"viewportWidth,omitempty"`
	ViewportHeight   float64     `json:"viewportHeight,omitempty"`
	ProjectionPlaneD float64     `json:"projectionPlaneD,omitempty"`
	RecursionDepth   *int        `json:"recursionDepth,omitempty"`
	Background       *core.Color `json:"background,omitempty"`
	ShadowEpsilon    float64     `json:"shadowEpsilon,omitempty"`
	NearClip         *float64    `json:"nearClip,omitempty"`
	MaxDistance      float64     `json:"maxDistance,omitempty"` // 0 means unbounded
}

// ParseScene decodes and validates a JSON scene
func ParseScene(reader io.Reader) (*scene.Scene, error) {
	var doc SceneDocument
	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode scene JSON: %w", err)
	}
	return doc.Build()
}

// LoadScene reads a JSON scene file. A missing name defaults to the file's base name.
func LoadScene(path string) (*scene.Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := ParseScene(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// WriteScene encodes a scene as indented JSON
func WriteScene(w io.Writer, s *scene.Scene) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewSceneDocument(s))
}

// Build converts the document into a validated scene
func (doc SceneDocument) Build() (*scene.Scene, error) {
	spheres := make([]geometry.Sphere, len(doc.Spheres))
	for i, sd := range doc.Spheres {
		spheres[i] = sd.Sphere()
	}

	sceneLights := make([]lights.Light, len(doc.Lights))
	for i, spec := range doc.Lights {
		light, err := lights.FromSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("%w: light %d: %w", scene.ErrInvalidScene, i, err)
		}
		sceneLights[i] = light
	}

	return scene.New(doc.Name, spheres, sceneLights, doc.Camera, doc.Config.Apply(scene.DefaultConfig()))
}

// Sphere converts the document into a sphere value (unvalidated)
func (sd SphereDocument) Sphere() geometry.Sphere {
	return geometry.Sphere{
		Center:     sd.Center,
		Radius:     sd.Radius,
		Color:      sd.Color,
		Specular:   sd.Specular,
		Reflective: sd.Reflective,
	}
}

// Apply layers the document's overrides on top of base
func (cd ConfigDocument) Apply(base scene.Config) scene.Config {
	config := scene.MergeConfig(base, scene.Config{
		Width:            cd.Width,
		Height:           cd.Height,
		ViewportWidth:    cd.ViewportWidth,
		ViewportHeight:   cd.ViewportHeight,
		ProjectionPlaneD: cd.ProjectionPlaneD,
		ShadowEpsilon:    cd.ShadowEpsilon,
		MaxDistance:      cd.MaxDistance,
	})
	if cd.RecursionDepth != nil {
		config.RecursionDepth = *cd.RecursionDepth
	}
	if cd.Background != nil {
		config.Background = *cd.Background
	}
	if cd.NearClip != nil {
		config.NearClip = *cd.NearClip
	}
	return config
}

// NewSceneDocument converts a scene into its JSON document form
func NewSceneDocument(s *scene.Scene) SceneDocument {
	doc := SceneDocument{
		Name:    s.Name,
		Camera:  s.CameraOrigin,
		Spheres: make([]SphereDocument, len(s.Spheres)),
		Lights:  make([]lights.Spec, len(s.Lights)),
		Config:  NewConfigDocument(s.Config),
	}
	for i, sphere := range s.Spheres {
		doc.Spheres[i] = NewSphereDocument(sphere)
	}
	for i, light := range s.Lights {
		doc.Lights[i] = lights.ToSpec(light)
	}
	return doc
}

// NewSphereDocument converts a sphere into its JSON form
func NewSphereDocument(sphere geometry.Sphere) SphereDocument {
	return SphereDocument{
		Center:     sphere.Center,
		Radius:     sphere.Radius,
		Color:      sphere.Color,
		Specular:   sphere.Specular,
		Reflective: sphere.Reflective,
	}
}

// NewConfigDocument converts a config into its JSON form with every field explicit
func NewConfigDocument(config scene.Config) ConfigDocument {
	depth := config.RecursionDepth
	background := config.Background
	nearClip := config.NearClip

	maxDistance := config.MaxDistance
	if math.IsInf(maxDistance, 1) {
		maxDistance = 0 // JSON has no infinity
	}

	return ConfigDocument{
		Width:            config.Width,
		Height:           config.Height,
		ViewportWidth:    config.ViewportWidth,
		ViewportHeight:   config.ViewportHeight,
		ProjectionPlaneD: config.ProjectionPlaneD,
		RecursionDepth:   &depth,
		Background:       &background,
		ShadowEpsilon:    config.ShadowEpsilon,
		NearClip:         &nearClip,
		MaxDistance:      maxDistance,
	}
}
