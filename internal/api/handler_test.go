package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleCSV = "Country,Year,Value\nFrance,2021,42\nUSA,2021,7\n"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	handler, err := NewHandler(NewStore(nil))
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}
	router, err := handler.Routes()
	if err != nil {
		t.Fatalf("failed to build routes: %v", err)
	}
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body string, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if out != nil {
		if err := json.NewDecoder(rec.Result().Body).Decode(out); err != nil {
			t.Fatalf("failed to decode %s %s response: %v", method, path, err)
		}
	}
	return rec
}

func createSession(t *testing.T, router http.Handler) sessionResponse {
	t.Helper()

	var session sessionResponse
	rec := doJSON(t, router, http.MethodPost, "/sessions", "", &session)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	if session.ID == "" {
		t.Fatalf("expected a session id")
	}
	return session
}

func TestCreateSession_ListsTemplates(t *testing.T) {
	router := newTestRouter(t)

	session := createSession(t, router)
	if session.State != "initial" {
		t.Fatalf("expected initial state, got %q", session.State)
	}
	if len(session.Templates) != 3 {
		t.Fatalf("expected 3 builtin templates, got %v", session.Templates)
	}
}

func TestWorkflow_UploadPredictCorrectPreviewPackage(t *testing.T) {
	router := newTestRouter(t)
	session := createSession(t, router)
	base := "/sessions/" + session.ID

	var afterInput sessionResponse
	rec := doJSON(t, router, http.MethodPost, base+"/input?name=data.csv", sampleCSV, &afterInput)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for input, got %d: %s", rec.Code, rec.Body.String())
	}
	if afterInput.State != "initial" {
		t.Fatalf("expected initial state without a template, got %q", afterInput.State)
	}
	if len(afterInput.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %v", afterInput.Columns)
	}

	var afterTemplate sessionResponse
	rec = doJSON(t, router, http.MethodPut, base+"/template", `{"kind":"standard"}`, &afterTemplate)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for template, got %d: %s", rec.Code, rec.Body.String())
	}
	if afterTemplate.State != "predicted" {
		t.Fatalf("expected predicted state, got %q", afterTemplate.State)
	}
	if !afterTemplate.CanPreview {
		t.Fatalf("expected preview to be available")
	}

	var mapped mappingResponse
	rec = doJSON(t, router, http.MethodGet, base+"/mapping", "", &mapped)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for mapping, got %d", rec.Code)
	}
	if got := mapped.Predicted["place"].Column; got != "Country" {
		t.Fatalf("expected place predicted from Country, got %#v", mapped.Predicted)
	}
	if len(mapped.User) != 0 {
		t.Fatalf("expected no user mapping yet, got %#v", mapped.User)
	}
	if mapped.ValueMap["France"] != "country/FRA" {
		t.Fatalf("expected France normalization, got %#v", mapped.ValueMap)
	}

	rec = doJSON(t, router, http.MethodPut, base+"/mapping",
		`{"fields":{"place":{"column":"Country"},"year":{"column":"Year"},"value":{"constant":"1"}}}`, &mapped)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for correction, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := mapped.Effective["value"].Constant; got != "1" {
		t.Fatalf("expected constant correction to win, got %#v", mapped.Effective)
	}
	if got := mapped.Predicted["value"].Column; got != "Value" {
		t.Fatalf("expected prediction to stay untouched, got %#v", mapped.Predicted)
	}

	req := httptest.NewRequest(http.MethodPost, base+"/preview?format=html", nil)
	previewRec := httptest.NewRecorder()
	router.ServeHTTP(previewRec, req)
	if previewRec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for preview, got %d: %s", previewRec.Code, previewRec.Body.String())
	}
	if ct := previewRec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML preview, got %q", ct)
	}
	if !strings.Contains(previewRec.Body.String(), "country/FRA") {
		t.Fatalf("expected normalized place value in preview: %s", previewRec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, base+"/package", nil)
	pkgRec := httptest.NewRecorder()
	router.ServeHTTP(pkgRec, req)
	if pkgRec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for package, got %d: %s", pkgRec.Code, pkgRec.Body.String())
	}
	if got := pkgRec.Body.String(); !strings.HasPrefix(got, "place,year,value\n") {
		t.Fatalf("unexpected package header: %q", got)
	}
	if !strings.Contains(pkgRec.Body.String(), "country/USA,2021,1") {
		t.Fatalf("expected translated row, got %q", pkgRec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, base+"/package/manifest", nil)
	manifestRec := httptest.NewRecorder()
	router.ServeHTTP(manifestRec, req)
	if manifestRec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for manifest, got %d", manifestRec.Code)
	}
	if !strings.Contains(manifestRec.Body.String(), "template: standard") {
		t.Fatalf("unexpected manifest: %s", manifestRec.Body.String())
	}
}

func TestSetInput_FromURLReference(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer upstream.Close()

	router := newTestRouter(t)
	session := createSession(t, router)

	var afterInput sessionResponse
	rec := doJSON(t, router, http.MethodPost,
		"/sessions/"+session.ID+"/input?url="+upstream.URL+"/data.csv", "", &afterInput)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(afterInput.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %v", afterInput.Columns)
	}
}

func TestSetInput_MalformedURLIsBadRequest(t *testing.T) {
	router := newTestRouter(t)
	session := createSession(t, router)

	var payload errorResponse
	rec := doJSON(t, router, http.MethodPost, "/sessions/"+session.ID+"/input?url=notaurl", "", &payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(payload.Error.Message, "notaurl") {
		t.Fatalf("expected error to name the URL, got %q", payload.Error.Message)
	}
}

func TestSetTemplate_UnknownKindIsBadRequest(t *testing.T) {
	router := newTestRouter(t)
	session := createSession(t, router)

	var payload errorResponse
	rec := doJSON(t, router, http.MethodPut, "/sessions/"+session.ID+"/template", `{"kind":"bogus"}`, &payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(payload.Error.Message, "bogus") {
		t.Fatalf("expected error to name the kind, got %q", payload.Error.Message)
	}
}

func TestGeneratePreview_IncompleteMappingIsConflict(t *testing.T) {
	router := newTestRouter(t)
	session := createSession(t, router)
	base := "/sessions/" + session.ID

	rec := doJSON(t, router, http.MethodPost, base+"/input", "City,Population\nParis,2000000\n", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for input, got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodPut, base+"/template", `{"kind":"standard"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for template, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, base+"/preview", "", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUnknownSessionIsNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/sessions/not-a-uuid", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for malformed id, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/sessions/00000000-0000-0000-0000-000000000000", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown id, got %d", rec.Code)
	}
}

func TestDeleteSession_RemovesIt(t *testing.T) {
	router := newTestRouter(t)
	session := createSession(t, router)
	base := "/sessions/" + session.ID

	req := httptest.NewRequest(http.MethodDelete, base, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}

	getRec := doJSON(t, router, http.MethodGet, base, "", nil)
	if getRec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", getRec.Code)
	}
}

func TestCountriesComponentIsMounted(t *testing.T) {
	router := newTestRouter(t)

	var payload struct {
		Data []struct {
			Value string `json:"value"`
		} `json:"data"`
	}
	rec := doJSON(t, router, http.MethodGet, "/components/countries?q=france", "", &payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if len(payload.Data) == 0 || payload.Data[0].Value != "country/FRA" {
		t.Fatalf("unexpected countries payload: %#v", payload.Data)
	}
}
