package server

import (
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/editor"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	config := DefaultConfig()
	config.TileSize = 16
	config.NumWorkers = 2
	return NewServer(config, scene.NewBasicScene(scene.Config{Width: 40, Height: 40}))
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header on every response")
	}
}

func TestServer_ListScenes(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/scenes", "")

	var scenes []scene.SceneInfo
	decodeJSON(t, rec, &scenes)
	if len(scenes) != len(scene.ListScenes()) {
		t.Errorf("Expected %d scenes, got %d", len(scene.ListScenes()), len(scenes))
	}
}

func TestServer_LoadScene(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/scene/load?name=default", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var doc editor.Document
	decodeJSON(t, rec, &doc)
	if doc.Name != "default" || len(doc.Spheres) != 4 || doc.Revision != 1 {
		t.Errorf("Expected default scene at revision 1, got %q with %d spheres at %d", doc.Name, len(doc.Spheres), doc.Revision)
	}

	tests := []struct {
		target string
		status int
	}{
		{"/api/scene/load", http.StatusBadRequest},
		{"/api/scene/load?name=nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		if rec := doRequest(t, s, http.MethodPost, tt.target, ""); rec.Code != tt.status {
			t.Errorf("%s: expected %d, got %d", tt.target, tt.status, rec.Code)
		}
	}
}

func TestServer_SphereEndpoints(t *testing.T) {
	s := newTestServer(t)

	body := `{"center": {"x": 0, "y": 1, "z": 6}, "radius": 0.5, "color": {"r": 0, "g": 0, "b": 255}, "specular": 100, "reflective": 0.2}`
	rec := doRequest(t, s, http.MethodPost, "/api/spheres", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created idResponse
	decodeJSON(t, rec, &created)
	if created.ID == "" || created.Revision != 1 {
		t.Errorf("Expected new ID at revision 1, got %+v", created)
	}

	update := strings.Replace(body, `"radius": 0.5`, `"radius": 0.75`, 1)
	if rec := doRequest(t, s, http.MethodPut, "/api/spheres/"+created.ID, update); rec.Code != http.StatusOK {
		t.Errorf("Update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := s.Editor().Document().Spheres[3].Radius; got != 0.75 {
		t.Errorf("Expected updated radius 0.75, got %v", got)
	}

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"zero radius", http.MethodPost, "/api/spheres", strings.Replace(body, `"radius": 0.5`, `"radius": 0`, 1), http.StatusBadRequest},
		{"full mirror", http.MethodPut, "/api/spheres/" + created.ID, strings.Replace(body, `"reflective": 0.2`, `"reflective": 1`, 1), http.StatusBadRequest},
		{"malformed", http.MethodPost, "/api/spheres", `{"radius": `, http.StatusBadRequest},
		{"unknown update", http.MethodPut, "/api/spheres/missing", body, http.StatusNotFound},
		{"delete", http.MethodDelete, "/api/spheres/" + created.ID, "", http.StatusOK},
		{"delete again", http.MethodDelete, "/api/spheres/" + created.ID, "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := doRequest(t, s, tt.method, tt.target, tt.body); rec.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestServer_LightEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/lights", `{"type": "point", "intensity": 0.6, "position": {"x": 2, "y": 1, "z": 0}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created idResponse
	decodeJSON(t, rec, &created)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"missing position", http.MethodPost, "/api/lights", `{"type": "point", "intensity": 1}`, http.StatusBadRequest},
		{"unknown type", http.MethodPost, "/api/lights", `{"type": "spot", "intensity": 1}`, http.StatusBadRequest},
		{"change kind", http.MethodPut, "/api/lights/" + created.ID, `{"type": "directional", "intensity": 0.2, "direction": {"x": 1, "y": 4, "z": 4}}`, http.StatusOK},
		{"unknown update", http.MethodPut, "/api/lights/missing", `{"type": "ambient", "intensity": 1}`, http.StatusNotFound},
		{"delete", http.MethodDelete, "/api/lights/" + created.ID, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := doRequest(t, s, tt.method, tt.target, tt.body); rec.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}

	if n := len(s.Editor().Document().Lights); n != 1 {
		t.Errorf("Expected only the seeded ambient light, got %d lights", n)
	}
}

func TestServer_RenderPNG(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/render", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}
	if rec.Header().Get("X-Render-Id") == "" || rec.Header().Get("X-Scene-Revision") != "0" {
		t.Errorf("Missing render headers: %v", rec.Header())
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Response is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Errorf("Expected 40x40 image, got %v", b)
	}
	r, g, b, _ := img.At(20, 19).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("Expected white background at the center, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}

	var console []ConsoleMessage
	decodeJSON(t, doRequest(t, s, http.MethodGet, "/api/console", ""), &console)
	if len(console) != 2 {
		t.Fatalf("Expected 2 console messages, got %d", len(console))
	}
	if console[0].RenderID != rec.Header().Get("X-Render-Id") {
		t.Errorf("Console render ID %s does not match %s", console[0].RenderID, rec.Header().Get("X-Render-Id"))
	}
}

func TestServer_RenderCache(t *testing.T) {
	s := newTestServer(t)

	first := doRequest(t, s, http.MethodGet, "/api/render", "")
	second := doRequest(t, s, http.MethodGet, "/api/render", "")
	if first.Header().Get("X-Render-Id") != second.Header().Get("X-Render-Id") {
		t.Error("Unchanged scene should be served from the cache")
	}

	resized := doRequest(t, s, http.MethodGet, "/api/render?width=20&height=20", "")
	if resized.Header().Get("X-Render-Id") == first.Header().Get("X-Render-Id") {
		t.Error("Different size must trigger a new render")
	}

	doRequest(t, s, http.MethodDelete, "/api/lights/"+s.Editor().Document().Lights[0].ID, "")
	third := doRequest(t, s, http.MethodGet, "/api/render?width=20&height=20", "")
	if third.Header().Get("X-Render-Id") == resized.Header().Get("X-Render-Id") {
		t.Error("Edit must trigger a new render")
	}
	if third.Header().Get("X-Scene-Revision") != "1" {
		t.Errorf("Expected revision 1, got %s", third.Header().Get("X-Scene-Revision"))
	}
}

func TestServer_RenderJSON(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/render?format=json&depth=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp RenderResponse
	decodeJSON(t, rec, &resp)
	if resp.Stats.TotalPixels != 1600 || resp.Stats.TotalTiles != 9 || resp.Stats.RecursionDepth != 2 {
		t.Errorf("Unexpected stats: %+v", resp.Stats)
	}
	if resp.Stats.HitPixels+resp.Stats.BackgroundPixels != resp.Stats.TotalPixels {
		t.Errorf("Hit and background pixels should add up: %+v", resp.Stats)
	}

	data, err := base64.StdEncoding.DecodeString(resp.ImageData)
	if err != nil {
		t.Fatalf("Image data is not base64: %v", err)
	}
	if _, err := png.Decode(strings.NewReader(string(data))); err != nil {
		t.Errorf("Image data is not a PNG: %v", err)
	}
}

func TestServer_RenderRejectsBadParams(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{
		"/api/render?width=0",
		"/api/render?width=abc",
		"/api/render?height=5000",
		"/api/render?depth=-2",
		"/api/render?format=gif",
	} {
		if rec := doRequest(t, s, http.MethodGet, target, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestServer_Inspect(t *testing.T) {
	s := newTestServer(t)
	ids := s.Editor().Document().Spheres

	tests := []struct {
		name     string
		x, y     int
		hit      bool
		sphereID string
		color    string
	}{
		{"background", 20, 19, false, "", "#ffffff"},
		{"green sphere", 4, 19, true, ids[1].ID, "#00ff00"},
		{"red sphere", 20, 35, true, ids[0].ID, "#ff0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/api/inspect?x=" + strconv.Itoa(tt.x) + "&y=" + strconv.Itoa(tt.y)
			rec := doRequest(t, s, http.MethodGet, target, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}

			var resp InspectResponse
			decodeJSON(t, rec, &resp)
			if resp.Hit != tt.hit || resp.SphereID != tt.sphereID || resp.Color != tt.color {
				t.Errorf("Expected hit=%v sphere=%q color=%s, got %+v", tt.hit, tt.sphereID, tt.color, resp)
			}
			if tt.hit && resp.Intensity != 1.0 {
				t.Errorf("Expected ambient-only intensity 1.0, got %v", resp.Intensity)
			}
		})
	}

	if rec := doRequest(t, s, http.MethodGet, "/api/inspect?x=40&y=0", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Out of bounds pixel: expected 400, got %d", rec.Code)
	}
}
