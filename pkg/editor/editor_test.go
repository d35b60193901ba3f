package editor

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	return New(scene.NewBasicScene())
}

func blueSphere() geometry.Sphere {
	return geometry.Sphere{Center: core.NewVec3(0, 1, 6), Radius: 0.5, Color: core.NewColor(0, 0, 255), Specular: 100}
}

func TestEditor_SeededFromScene(t *testing.T) {
	e := newTestEditor(t)
	doc := e.Document()

	if len(doc.Spheres) != 3 || len(doc.Lights) != 1 {
		t.Fatalf("Expected 3 spheres and 1 light, got %d and %d", len(doc.Spheres), len(doc.Lights))
	}
	if doc.Revision != 0 {
		t.Errorf("Expected revision 0, got %d", doc.Revision)
	}

	seen := make(map[string]bool)
	for _, s := range doc.Spheres {
		if s.ID == "" || seen[s.ID] {
			t.Errorf("Expected unique non-empty sphere IDs, got %q", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestEditor_SphereLifecycle(t *testing.T) {
	e := newTestEditor(t)

	id, err := e.AddSphere(blueSphere())
	if err != nil {
		t.Fatalf("AddSphere failed: %v", err)
	}
	if e.Revision() != 1 {
		t.Errorf("Expected revision 1 after add, got %d", e.Revision())
	}

	updated := blueSphere()
	updated.Reflective = 0.5
	if err := e.UpdateSphere(id, updated); err != nil {
		t.Fatalf("UpdateSphere failed: %v", err)
	}

	s, revision, err := e.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if revision != 2 {
		t.Errorf("Expected revision 2, got %d", revision)
	}
	if len(s.Spheres) != 4 || s.Spheres[3] != updated {
		t.Errorf("Expected updated sphere last, got %+v", s.Spheres)
	}

	if err := e.DeleteSphere(id); err != nil {
		t.Fatalf("DeleteSphere failed: %v", err)
	}
	if err := e.DeleteSphere(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
	if err := e.UpdateSphere("missing", blueSphere()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound updating unknown ID, got %v", err)
	}

	// The earlier snapshot is unaffected by the delete
	if len(s.Spheres) != 4 {
		t.Errorf("Snapshot changed after edit: %d spheres", len(s.Spheres))
	}
}

func TestEditor_DeleteKeepsOrder(t *testing.T) {
	e := newTestEditor(t)
	doc := e.Document()

	if err := e.DeleteSphere(doc.Spheres[1].ID); err != nil {
		t.Fatalf("DeleteSphere failed: %v", err)
	}

	after := e.Document()
	if len(after.Spheres) != 2 {
		t.Fatalf("Expected 2 spheres, got %d", len(after.Spheres))
	}
	if after.Spheres[0].ID != doc.Spheres[0].ID || after.Spheres[1].ID != doc.Spheres[2].ID {
		t.Error("Remaining spheres should keep their declaration order")
	}
}

func TestEditor_RejectsInvalidEdits(t *testing.T) {
	e := newTestEditor(t)
	id := e.Document().Spheres[0].ID

	tests := []struct {
		name   string
		edit   func() error
		target error
	}{
		{"zero radius", func() error {
			s := blueSphere()
			s.Radius = 0
			_, err := e.AddSphere(s)
			return err
		}, geometry.ErrInvalidSphere},
		{"full mirror", func() error {
			s := blueSphere()
			s.Reflective = 1
			return e.UpdateSphere(id, s)
		}, geometry.ErrInvalidSphere},
		{"nil light", func() error {
			_, err := e.AddLight(nil)
			return err
		}, lights.ErrInvalidLight},
		{"zero direction", func() error {
			_, err := e.AddLight(&lights.Directional{Intensity: 1})
			return err
		}, lights.ErrInvalidLight},
		{"negative depth", func() error {
			config := scene.DefaultConfig()
			config.RecursionDepth = -1
			return e.SetConfig(config)
		}, scene.ErrInvalidScene},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.edit(); !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
		})
	}

	if e.Revision() != 0 {
		t.Errorf("Rejected edits must not bump the revision, got %d", e.Revision())
	}
}

func TestEditor_LightLifecycle(t *testing.T) {
	e := newTestEditor(t)

	point, _ := lights.NewPoint(0.6, core.NewVec3(2, 1, 0))
	id, err := e.AddLight(point)
	if err != nil {
		t.Fatalf("AddLight failed: %v", err)
	}

	// Mutating the caller's light must not reach the draft
	point.Intensity = 5

	directional, _ := lights.NewDirectional(0.2, core.NewVec3(1, 4, 4))
	if err := e.UpdateLight(id, directional); err != nil {
		t.Fatalf("UpdateLight failed: %v", err)
	}

	doc := e.Document()
	last := doc.Lights[len(doc.Lights)-1]
	if last.ID != id || last.Type != lights.LightTypeDirectional || last.Intensity != 0.2 {
		t.Errorf("Expected directional light %s, got %+v", id, last)
	}

	if err := e.DeleteLight(id); err != nil {
		t.Fatalf("DeleteLight failed: %v", err)
	}
	if err := e.UpdateLight(id, directional); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestEditor_OnChange(t *testing.T) {
	e := newTestEditor(t)

	var revisions []uint64
	e.OnChange(func(revision uint64) {
		// The hook runs outside the lock
		if e.Revision() != revision {
			t.Errorf("Hook revision %d does not match editor revision %d", revision, e.Revision())
		}
		revisions = append(revisions, revision)
	})

	id, _ := e.AddSphere(blueSphere())
	_ = e.DeleteSphere(id)
	e.Load(scene.NewDefaultScene())

	if len(revisions) != 3 || revisions[2] != 3 {
		t.Errorf("Expected revisions [1 2 3], got %v", revisions)
	}

	s, _, err := e.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if s.Name != "default" || len(s.Spheres) != 4 {
		t.Errorf("Expected default scene after load, got %q with %d spheres", s.Name, len(s.Spheres))
	}
}

func TestEditor_DocumentJSON(t *testing.T) {
	e := newTestEditor(t)

	data, err := json.Marshal(e.Document())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded struct {
		Spheres []map[string]interface{} `json:"spheres"`
		Lights  []map[string]interface{} `json:"lights"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	for _, key := range []string{"id", "center", "radius", "color", "specular", "reflective"} {
		if _, ok := decoded.Spheres[0][key]; !ok {
			t.Errorf("Sphere JSON missing %q: %v", key, decoded.Spheres[0])
		}
	}
	if decoded.Lights[0]["type"] != "ambient" {
		t.Errorf("Expected ambient light, got %v", decoded.Lights[0])
	}
}

func TestEditor_ConcurrentEdits(t *testing.T) {
	e := newTestEditor(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := e.AddSphere(blueSphere())
			if err != nil {
				t.Errorf("AddSphere failed: %v", err)
				return
			}
			if _, _, err := e.Snapshot(); err != nil {
				t.Errorf("Snapshot failed: %v", err)
			}
			if err := e.DeleteSphere(id); err != nil {
				t.Errorf("DeleteSphere failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if e.Revision() != 16 {
		t.Errorf("Expected 16 revisions, got %d", e.Revision())
	}
	if n := len(e.Document().Spheres); n != 3 {
		t.Errorf("Expected 3 spheres after concurrent edits, got %d", n)
	}
}

func TestEditor_SnapshotWithIDs(t *testing.T) {
	e := newTestEditor(t)
	doc := e.Document()

	s, ids, revision, err := e.SnapshotWithIDs()
	if err != nil {
		t.Fatalf("SnapshotWithIDs failed: %v", err)
	}
	if revision != doc.Revision {
		t.Errorf("Expected revision %d, got %d", doc.Revision, revision)
	}
	if len(ids) != len(s.Spheres) {
		t.Fatalf("Expected %d IDs, got %d", len(s.Spheres), len(ids))
	}
	for i, id := range ids {
		if id != doc.Spheres[i].ID {
			t.Errorf("ID %d: expected %s, got %s", i, doc.Spheres[i].ID, id)
		}
	}
}
