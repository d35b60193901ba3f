// Package editor holds a mutable draft of a scene and hands out immutable snapshots for rendering.
package editor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/loaders"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// ErrNotFound is returned when an edit names an ID the draft does not contain
var ErrNotFound = errors.New("not found")

// ChangeFunc is called after every successful edit with the new revision
type ChangeFunc func(revision uint64)

type sphereItem struct {
	id     string
	sphere geometry.Sphere
}

type lightItem struct {
	id    string
	light lights.Light
}

// Editor is a concurrency-safe scene draft. Every edit is validated before it
// is applied and bumps the revision by one.
type Editor struct {
	mu       sync.RWMutex
	name     string
	camera   core.Vec3
	config   scene.Config
	spheres  []sphereItem
	lights   []lightItem
	revision uint64
	onChange ChangeFunc
	newID    func() string
}

// New creates an editor seeded with the contents of s
func New(s *scene.Scene) *Editor {
	e := &Editor{newID: func() string { return uuid.New().String() }}
	e.reset(s)
	return e
}

// OnChange registers the hook called after each edit. A nil hook disables it.
func (e *Editor) OnChange(fn ChangeFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// Revision returns the current draft revision
func (e *Editor) Revision() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.revision
}

// Load replaces the whole draft with s and returns the new revision
func (e *Editor) Load(s *scene.Scene) uint64 {
	e.mu.Lock()
	e.reset(s)
	e.revision++
	return e.commit()
}

// reset must be called with the lock held
func (e *Editor) reset(s *scene.Scene) {
	e.name = s.Name
	e.camera = s.CameraOrigin
	e.config = s.Config
	e.spheres = make([]sphereItem, len(s.Spheres))
	for i, sphere := range s.Spheres {
		e.spheres[i] = sphereItem{id: e.newID(), sphere: sphere}
	}
	e.lights = make([]lightItem, len(s.Lights))
	for i, light := range s.Lights {
		e.lights[i] = lightItem{id: e.newID(), light: lights.Clone(light)}
	}
}

// commit releases the write lock and fires the change hook outside of it
func (e *Editor) commit() uint64 {
	revision := e.revision
	hook := e.onChange
	e.mu.Unlock()
	if hook != nil {
		hook(revision)
	}
	return revision
}

// SetConfig replaces the draft configuration
func (e *Editor) SetConfig(config scene.Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.config = config
	e.revision++
	e.commit()
	return nil
}

// AddSphere appends a sphere and returns its ID
func (e *Editor) AddSphere(sphere geometry.Sphere) (string, error) {
	if err := sphere.Validate(); err != nil {
		return "", err
	}
	e.mu.Lock()
	id := e.newID()
	e.spheres = append(e.spheres, sphereItem{id: id, sphere: sphere})
	e.revision++
	e.commit()
	return id, nil
}

// UpdateSphere replaces the sphere with the given ID, keeping its position in the draft
func (e *Editor) UpdateSphere(id string, sphere geometry.Sphere) error {
	if err := sphere.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	i := e.sphereIndex(id)
	if i < 0 {
		e.mu.Unlock()
		return fmt.Errorf("sphere %s: %w", id, ErrNotFound)
	}
	e.spheres[i].sphere = sphere
	e.revision++
	e.commit()
	return nil
}

// DeleteSphere removes the sphere with the given ID
func (e *Editor) DeleteSphere(id string) error {
	e.mu.Lock()
	i := e.sphereIndex(id)
	if i < 0 {
		e.mu.Unlock()
		return fmt.Errorf("sphere %s: %w", id, ErrNotFound)
	}
	e.spheres = append(e.spheres[:i:i], e.spheres[i+1:]...)
	e.revision++
	e.commit()
	return nil
}

// AddLight appends a light and returns its ID
func (e *Editor) AddLight(light lights.Light) (string, error) {
	if err := lights.Validate(light); err != nil {
		return "", err
	}
	e.mu.Lock()
	id := e.newID()
	e.lights = append(e.lights, lightItem{id: id, light: lights.Clone(light)})
	e.revision++
	e.commit()
	return id, nil
}

// UpdateLight replaces the light with the given ID. The kind of light may change.
func (e *Editor) UpdateLight(id string, light lights.Light) error {
	if err := lights.Validate(light); err != nil {
		return err
	}
	e.mu.Lock()
	i := e.lightIndex(id)
	if i < 0 {
		e.mu.Unlock()
		return fmt.Errorf("light %s: %w", id, ErrNotFound)
	}
	e.lights[i].light = lights.Clone(light)
	e.revision++
	e.commit()
	return nil
}

// DeleteLight removes the light with the given ID
func (e *Editor) DeleteLight(id string) error {
	e.mu.Lock()
	i := e.lightIndex(id)
	if i < 0 {
		e.mu.Unlock()
		return fmt.Errorf("light %s: %w", id, ErrNotFound)
	}
	e.lights = append(e.lights[:i:i], e.lights[i+1:]...)
	e.revision++
	e.commit()
	return nil
}

func (e *Editor) sphereIndex(id string) int {
	for i, item := range e.spheres {
		if item.id == id {
			return i
		}
	}
	return -1
}

func (e *Editor) lightIndex(id string) int {
	for i, item := range e.lights {
		if item.id == id {
			return i
		}
	}
	return -1
}

// Snapshot builds an immutable scene from the current draft along with its revision.
// Later edits never reach a snapshot that has already been taken.
func (e *Editor) Snapshot() (*scene.Scene, uint64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot()
}

// SnapshotWithIDs is like Snapshot and also returns the sphere IDs,
// index-aligned with the snapshot's Spheres slice.
func (e *Editor) SnapshotWithIDs() (*scene.Scene, []string, uint64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, revision, err := e.snapshot()
	if err != nil {
		return nil, nil, 0, err
	}
	ids := make([]string, len(e.spheres))
	for i, item := range e.spheres {
		ids[i] = item.id
	}
	return s, ids, revision, nil
}

func (e *Editor) snapshot() (*scene.Scene, uint64, error) {
	spheres := make([]geometry.Sphere, len(e.spheres))
	for i, item := range e.spheres {
		spheres[i] = item.sphere
	}
	sceneLights := make([]lights.Light, len(e.lights))
	for i, item := range e.lights {
		sceneLights[i] = item.light
	}

	s, err := scene.New(e.name, spheres, sceneLights, e.camera, e.config)
	if err != nil {
		return nil, 0, err
	}
	return s, e.revision, nil
}

// SphereEntry is an editable sphere with its ID
type SphereEntry struct {
	ID string `json:"id"`
	loaders.SphereDocument
}

// LightEntry is an editable light with its ID
type LightEntry struct {
	ID string `json:"id"`
	lights.Spec
}

// Document is the JSON view of the draft served to clients
type Document struct {
	Name     string                 `json:"name"`
	Revision uint64                 `json:"revision"`
	Camera   core.Vec3              `json:"camera"`
	Spheres  []SphereEntry          `json:"spheres"`
	Lights   []LightEntry           `json:"lights"`
	Config   loaders.ConfigDocument `json:"config"`
}

// Document returns the current draft in its JSON form
func (e *Editor) Document() Document {
	e.mu.RLock()
	defer e.mu.RUnlock()

	doc := Document{
		Name:     e.name,
		Revision: e.revision,
		Camera:   e.camera,
		Spheres:  make([]SphereEntry, len(e.spheres)),
		Lights:   make([]LightEntry, len(e.lights)),
		Config:   loaders.NewConfigDocument(e.config),
	}
	for i, item := range e.spheres {
		doc.Spheres[i] = SphereEntry{ID: item.id, SphereDocument: loaders.NewSphereDocument(item.sphere)}
	}
	for i, item := range e.lights {
		doc.Lights[i] = LightEntry{ID: item.id, Spec: lights.ToSpec(item.light)}
	}
	return doc
}
