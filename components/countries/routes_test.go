package countries

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath("/v1"); got != "/v1/api/countries" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("v1"); got != "/v1/api/countries" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("/v1/", WithRoutePath("api/places")); got != "/v1/api/places" {
		t.Fatalf("unexpected mount path: %q", got)
	}
}

func TestRegisterRoutes_RegistersHandler(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := RegisterRoutes(mux, "/v1", WithPlaces(samplePlaces()))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pattern != "/v1/api/countries" {
		t.Fatalf("unexpected registered pattern: %q", pattern)
	}

	req := httptest.NewRequest(http.MethodGet, pattern+"?q=brazil&limit=1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRegisterRoutes_MissingMux(t *testing.T) {
	if _, err := RegisterRoutes(nil, "/v1"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}
