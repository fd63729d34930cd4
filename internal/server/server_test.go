package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/treescope/treescope/pkg/cache"
	"github.com/treescope/treescope/pkg/diagram"
	"github.com/treescope/treescope/pkg/layout"
)

const sampleTree = `{"text":"root","digest":"d0","children":[{"text":"left"},{"text":"right"}]}`

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := diagram.DefaultConfig()
	srv := New(cache.NewMemoryCache(), diagram.NewRenderer(layout.NewTidyEngine(), cfg), cfg,
		WithWidth(600))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func uploadTree(t *testing.T, ts *httptest.Server, body string) string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/trees", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status %d", resp.StatusCode)
	}

	var out struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.ID == "" || out.URL != "/trees/"+out.ID {
		t.Fatalf("unexpected upload response: %+v", out)
	}
	return out.ID
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status %d", resp.StatusCode)
	}
}

func TestUploadAndFetchSVG(t *testing.T) {
	_, ts := newTestServer(t)
	id := uploadTree(t, ts, sampleTree)

	resp, err := http.Get(ts.URL + "/trees/" + id + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type %q", ct)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	svg := buf.String()
	if !strings.Contains(svg, "<svg") {
		t.Error("response is not SVG")
	}
	// 3 nodes: 3 rects, 2 connector paths.
	if got := strings.Count(svg, "<rect"); got != 3 {
		t.Errorf("%d rects, want 3", got)
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("%d paths, want 2", got)
	}
}

func TestUploadInvalidJSON(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/trees", "application/json", strings.NewReader("{broken"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status %d, want 400", resp.StatusCode)
	}
}

func TestFetchUnknownTree(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/trees/no-such-tree.svg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status %d, want 404", resp.StatusCode)
	}
}

func TestPage(t *testing.T) {
	_, ts := newTestServer(t)
	id := uploadTree(t, ts, sampleTree)

	resp, err := http.Get(ts.URL + "/trees/" + id)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	page := buf.String()
	if !strings.Contains(page, "<!DOCTYPE html>") || !strings.Contains(page, "<svg") {
		t.Error("page should inline the SVG")
	}
}

func postGesture(t *testing.T, ts *httptest.Server, id, body string) (*http.Response, gestureResponse) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/trees/"+id+"/gestures", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var out gestureResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
	}
	return resp, out
}

func TestGestures(t *testing.T) {
	_, ts := newTestServer(t)
	id := uploadTree(t, ts, sampleTree)

	resp, view := postGesture(t, ts, id, `{"type":"pan","dx":30,"dy":-10}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pan status %d", resp.StatusCode)
	}
	if view.TranslateX != 30 || view.TranslateY != -10 || view.Scale != 1 {
		t.Errorf("view after pan: %+v", view)
	}

	resp, view = postGesture(t, ts, id, `{"type":"zoom","factor":2,"x":0,"y":0}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("zoom status %d", resp.StatusCode)
	}
	if view.Scale != 2 {
		t.Errorf("scale after zoom: %g", view.Scale)
	}

	// The transform survives and shows up in the next SVG fetch.
	svgResp, err := http.Get(ts.URL + "/trees/" + id + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	defer svgResp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(svgResp.Body)
	if !strings.Contains(buf.String(), "scale(2)") {
		t.Error("SVG viewport should carry the gestured transform")
	}

	resp, view = postGesture(t, ts, id, `{"type":"reset"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset status %d", resp.StatusCode)
	}
	if view.TranslateX != 0 || view.TranslateY != 0 || view.Scale != 1 {
		t.Errorf("view after reset: %+v", view)
	}
}

func TestGestureUnknownType(t *testing.T) {
	_, ts := newTestServer(t)
	id := uploadTree(t, ts, sampleTree)

	resp, _ := postGesture(t, ts, id, `{"type":"spin"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status %d, want 400", resp.StatusCode)
	}
}

func TestDeleteTree(t *testing.T) {
	_, ts := newTestServer(t)
	id := uploadTree(t, ts, sampleTree)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/trees/"+id, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status %d", resp.StatusCode)
	}

	get, err := http.Get(ts.URL + "/trees/" + id + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	get.Body.Close()
	if get.StatusCode != http.StatusNotFound {
		t.Errorf("status %d after delete, want 404", get.StatusCode)
	}
}

func TestSurfaceRebuiltFromStore(t *testing.T) {
	srv, ts := newTestServer(t)
	id := uploadTree(t, ts, sampleTree)

	// Simulate a restart: the surface is gone but the tree survives in
	// the store.
	srv.mu.Lock()
	srv.doc.RemoveSurface(id)
	srv.mu.Unlock()

	resp, err := http.Get(ts.URL + "/trees/" + id + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status %d, want surface rebuilt from store", resp.StatusCode)
	}
}
