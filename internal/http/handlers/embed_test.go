package handlers_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestWidgetScriptServesLoader(t *testing.T) {
	env := newTestEnv()
	adaID, _ := env.signup(t, "ada@example.com")
	w := env.addWidget(t, adaID, "Coffee Fund")

	rr := doRequest(env.api, http.MethodGet, "/api/embed/widget.js?id="+w.ID, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/javascript" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if cc := rr.Header().Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Fatalf("Cache-Control = %q", cc)
	}

	body := rr.Body.String()
	if !strings.Contains(body, w.ID) {
		t.Fatal("script does not carry the widget id")
	}
	if !strings.Contains(body, "Buy me a coffee") {
		t.Fatal("script does not carry the widget config")
	}
}

func TestWidgetScriptErrorsAreComments(t *testing.T) {
	env := newTestEnv()

	rr := doRequest(env.api, http.MethodGet, "/api/embed/widget.js", "", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if rr.Body.String() != "// Widget ID is required" {
		t.Fatalf("body = %q", rr.Body.String())
	}

	rr = doRequest(env.api, http.MethodGet, "/api/embed/widget.js?id=nope", "", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if rr.Body.String() != "// Widget not found" {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv()

	rr := doRequest(env.api, http.MethodGet, "/api/health", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Status string `json:"status"`
	}
	decodeBody(t, rr, &resp)
	if resp.Status != "healthy" {
		t.Fatalf("status = %q", resp.Status)
	}
}
