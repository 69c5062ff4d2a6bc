package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridpack/pkg/buildinfo"
	"github.com/matzehuels/gridpack/pkg/cache"
	"github.com/matzehuels/gridpack/pkg/grid"
	"github.com/matzehuels/gridpack/pkg/pipeline"
)

func newTestServer(t *testing.T) (*Server, *cache.MemoryCache) {
	t.Helper()
	c := cache.NewMemoryCache()
	runner := pipeline.NewRunner(c, nil, log.New(io.Discard))
	return New(runner, Options{}), c
}

func post(t *testing.T, s http.Handler, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

type resultBody struct {
	Widgets    []grid.Widget    `json:"widgets"`
	Changed    []string         `json:"changed"`
	Row        int              `json:"row"`
	Column     int              `json:"column"`
	CacheHit   bool             `json:"cacheHit"`
	Valid      bool             `json:"valid"`
	Violations []grid.Violation `json:"violations"`
	Error      *errorDetail     `json:"error"`
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) resultBody {
	t.Helper()
	var out resultBody
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func widgetByID(ws []grid.Widget, id string) (grid.Widget, bool) {
	for _, w := range ws {
		if w.ID == id {
			return w, true
		}
	}
	return grid.Widget{}, false
}

const halves = `"widgets":[{"id":"left","x":0,"y":0,"w":6,"h":1},{"id":"right","x":6,"y":0,"w":6,"h":1}]`

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"version":"`+buildinfo.Get().Version+`"`) {
		t.Errorf("body = %s, want the build version", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestCompactEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := post(t, s, "/v1/layouts/compact",
		`{"grid":{"float":true},"widgets":[{"id":"a","x":0,"y":3,"w":2,"h":1}]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if a, ok := widgetByID(body.Widgets, "a"); !ok || a.Y != 0 {
		t.Errorf("widgets = %+v", body.Widgets)
	}
	if len(body.Changed) != 1 || body.Row != 1 {
		t.Errorf("changed = %v row = %d", body.Changed, body.Row)
	}
}

func TestColumnsEndpointRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)

	rec := post(t, s, "/v1/layouts/columns", `{`+halves+`,"to":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	narrow := decodeBody(t, rec)
	if narrow.Column != 1 || narrow.Row != 2 {
		t.Fatalf("narrow = %+v", narrow)
	}

	ws, _ := json.Marshal(narrow.Widgets)
	rec = post(t, s, "/v1/layouts/columns", `{"grid":{"column":1},"widgets":`+string(ws)+`,"to":12}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	wide := decodeBody(t, rec)
	if !wide.CacheHit {
		t.Error("expected the stored column cache to be used")
	}
	if r, ok := widgetByID(wide.Widgets, "right"); !ok || r.X != 6 || r.W != 6 || r.Y != 0 {
		t.Errorf("right = %+v", r)
	}
}

func TestColumnsEndpointCarriesLayouts(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	s := New(runner, Options{})

	rec := post(t, s, "/v1/layouts/columns", `{`+halves+`,"to":1}`)
	var narrow struct {
		Widgets []grid.Widget              `json:"widgets"`
		Layouts map[int][]grid.LayoutEntry `json:"layouts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &narrow); err != nil {
		t.Fatal(err)
	}
	if len(narrow.Layouts[12]) != 2 {
		t.Fatalf("layouts = %+v", narrow.Layouts)
	}

	ws, _ := json.Marshal(narrow.Widgets)
	ls, _ := json.Marshal(narrow.Layouts)
	rec = post(t, s, "/v1/layouts/columns",
		`{"grid":{"column":1},"widgets":`+string(ws)+`,"layouts":`+string(ls)+`,"to":12}`)
	wide := decodeBody(t, rec)
	if r, ok := widgetByID(wide.Widgets, "right"); !ok || r.X != 6 || r.Y != 0 {
		t.Errorf("right = %+v, want restored from the request's layouts", r)
	}
}

func TestNamespaceIsolatesCache(t *testing.T) {
	s, c := newTestServer(t)

	post(t, s, "/v1/layouts/columns", `{`+halves+`,"to":1}`, NamespaceHeader, "team-a")
	post(t, s, "/v1/layouts/columns", `{`+halves+`,"to":1}`, NamespaceHeader, "team-b")
	if c.Len() != 2 {
		t.Errorf("cache holds %d entries, want one per namespace", c.Len())
	}

	rec := post(t, s, "/v1/layouts/columns", `{`+halves+`,"to":1}`, NamespaceHeader, "bad ns")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for an invalid namespace", rec.Code)
	}
}

func TestCheckEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := post(t, s, "/v1/layouts/check", `{`+halves+`}`)
	body := decodeBody(t, rec)
	if rec.Code != http.StatusOK || !body.Valid || len(body.Violations) != 0 {
		t.Errorf("valid layout: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = post(t, s, "/v1/layouts/check",
		`{"widgets":[{"id":"a","x":0,"y":0,"w":4,"h":1},{"id":"b","x":2,"y":0,"w":4,"h":1}]}`)
	body = decodeBody(t, rec)
	if rec.Code != http.StatusOK || body.Valid || len(body.Violations) != 1 {
		t.Errorf("overlapping layout: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestAddAndMoveEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := post(t, s, "/v1/layouts/add",
		`{"widgets":[{"id":"a","x":0,"y":0,"w":6,"h":1}],"widget":{"id":"b","w":6,"h":1}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body.String())
	}
	added := decodeBody(t, rec)
	if b, ok := widgetByID(added.Widgets, "b"); !ok || b.X != 6 || b.Y != 0 {
		t.Errorf("b = %+v", b)
	}

	ws, _ := json.Marshal(added.Widgets)
	rec = post(t, s, "/v1/layouts/move", `{"widgets":`+string(ws)+`,"id":"a","to":{"x":0,"y":2}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("move status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"malformed body", "/v1/layouts/compact", `{"widgets":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", "/v1/layouts/compact", `{"widgetz":[]}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad column", "/v1/layouts/compact", `{"grid":{"column":-2},"widgets":[]}`, http.StatusBadRequest, "INVALID_COLUMN"},
		{"bad mode", "/v1/layouts/columns", `{"widgets":[],"to":6,"mode":"list"}`, http.StatusBadRequest, "INVALID_LAYOUT_MODE"},
		{"missing widget", "/v1/layouts/add", `{"widgets":[]}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"no room", "/v1/layouts/add", `{"grid":{"maxRow":1},"widgets":[{"id":"a","x":0,"y":0,"w":12,"h":1}],"widget":{"w":1,"h":1}}`, http.StatusUnprocessableEntity, "OUT_OF_BOUNDS"},
		{"unknown widget", "/v1/layouts/move", `{"widgets":[],"id":"x","to":{"x":1,"y":1}}`, http.StatusNotFound, "WIDGET_NOT_FOUND"},
		{"missing id", "/v1/layouts/move", `{"widgets":[],"to":{"x":1,"y":1}}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown route", "/v1/layouts/spin", `{}`, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			body := decodeBody(t, rec)
			if body.Error == nil || body.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", body.Error, tt.code)
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	s := New(runner, Options{MaxBodyBytes: 16})

	body := bytes.Repeat([]byte(" "), 64)
	rec := post(t, s, "/v1/layouts/compact", `{"widgets":[]`+string(body)+`}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/layouts/compact", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
