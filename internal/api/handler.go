// Package api provides the HTTP surface of the import wizard: session
// lifecycle, input and template selection, mapping corrections, previews, and
// import-package downloads.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/goliatone/go-importwizard/components/countries"
	"github.com/goliatone/go-importwizard/pkg/preview"
	"github.com/goliatone/go-importwizard/pkg/surfaces/form"
	"github.com/goliatone/go-importwizard/pkg/tabular"
	"github.com/goliatone/go-importwizard/pkg/template"
	"github.com/goliatone/go-importwizard/pkg/wizard"
)

const maxInputBytes = 32 << 20

// HandlerOption customizes the API handler.
type HandlerOption func(*Handler)

// WithPreviews replaces the preview renderer registry.
func WithPreviews(registry *preview.Registry) HandlerOption {
	return func(h *Handler) {
		h.previews = registry
	}
}

// WithCountries replaces the countries component mounted on the router.
func WithCountries(component *countries.Component) HandlerOption {
	return func(h *Handler) {
		h.countries = component
	}
}

// Handler serves the wizard REST API.
type Handler struct {
	store     *Store
	previews  *preview.Registry
	countries *countries.Component
}

// NewHandler constructs the API handler around a session store.
func NewHandler(store *Store, options ...HandlerOption) (*Handler, error) {
	if store == nil {
		return nil, fmt.Errorf("api: missing session store")
	}

	h := &Handler{store: store}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}

	if h.previews == nil {
		h.previews = preview.DefaultRegistry()
	}
	if h.countries == nil {
		h.countries = countries.New(countries.WithRoutePath("/components/countries"))
	}
	return h, nil
}

// Routes assembles the chi router for the API.
func (h *Handler) Routes() (chi.Router, error) {
	r := chi.NewRouter()

	if _, err := h.countries.RegisterRoutes(r, ""); err != nil {
		return nil, err
	}

	r.Post("/sessions", h.createSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.getSession)
		r.Delete("/", h.deleteSession)
		r.Post("/input", h.setInput)
		r.Put("/template", h.setTemplate)
		r.Get("/mapping", h.getMapping)
		r.Put("/mapping", h.putMapping)
		r.Post("/preview", h.generatePreview)
		r.Get("/package", h.getPackage)
		r.Get("/package/manifest", h.getManifest)
	})
	return r, nil
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Create()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionPayload(session))
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionPayload(session))
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeErrorStatus(w, http.StatusNotFound, fmt.Errorf("api: unknown session"))
		return
	}
	if !h.store.Delete(id) {
		writeErrorStatus(w, http.StatusNotFound, fmt.Errorf("api: unknown session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setInput(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	parseOptions, err := parseOptionsFromQuery(r)
	if err != nil {
		writeErrorStatus(w, http.StatusBadRequest, err)
		return
	}

	if remote := r.URL.Query().Get("url"); remote != "" {
		src, err := tabular.ParseURLSource(remote)
		if err != nil {
			writeErrorStatus(w, http.StatusBadRequest, err)
			return
		}
		if err := session.SetInput(r.Context(), src, parseOptions...); err != nil {
			writeErrorStatus(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, sessionPayload(session))
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxInputBytes))
	if err != nil {
		writeErrorStatus(w, http.StatusBadRequest, fmt.Errorf("api: read input: %w", err))
		return
	}
	if len(raw) == 0 {
		writeErrorStatus(w, http.StatusBadRequest, fmt.Errorf("api: empty input body"))
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.csv"
	}
	doc, err := tabular.NewDocument(tabular.SourceFromFile(name), raw)
	if err != nil {
		writeErrorStatus(w, http.StatusBadRequest, err)
		return
	}

	if err := session.SetInputDocument(r.Context(), doc, parseOptions...); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionPayload(session))
}

func parseOptionsFromQuery(r *http.Request) ([]tabular.ParseOption, error) {
	var options []tabular.ParseOption
	if raw := r.URL.Query().Get("delimiter"); raw != "" {
		comma, size := utf8.DecodeRuneInString(raw)
		if size != len(raw) || comma == utf8.RuneError {
			return nil, fmt.Errorf("api: delimiter must be a single character, got %q", raw)
		}
		options = append(options, tabular.WithDelimiter(comma))
	}
	if r.URL.Query().Get("header") == "false" {
		options = append(options, tabular.WithoutHeader())
	}
	return options, nil
}

type templateRequest struct {
	Kind string `json:"kind"`
}

func (h *Handler) setTemplate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var payload templateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, fmt.Errorf("api: decode template request: %w", err))
		return
	}
	if payload.Kind == "" {
		writeErrorStatus(w, http.StatusBadRequest, fmt.Errorf("api: missing template kind"))
		return
	}

	if err := session.SetTemplate(r.Context(), template.Kind(payload.Kind)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionPayload(session))
}

func (h *Handler) getMapping(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, mappingPayload(session))
}

type mappingRequest struct {
	Fields form.Payload `json:"fields"`
}

func (h *Handler) putMapping(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var payload mappingRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, fmt.Errorf("api: decode mapping request: %w", err))
		return
	}

	tpl, hasTemplate := session.Template()
	if !hasTemplate {
		writeError(w, wizard.ErrNoTemplate)
		return
	}

	surface := form.New(tpl.ID, payload.Fields)
	corrected, err := surface.Correct(r.Context(), wizard.SurfaceRequest{
		Template:  tpl,
		Columns:   session.Columns(),
		Predicted: session.PredictedMapping(),
		Current:   session.UserMapping(),
	})
	if err != nil {
		writeErrorStatus(w, http.StatusBadRequest, err)
		return
	}

	if err := session.SetUserMapping(corrected); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mappingPayload(session))
}

func (h *Handler) generatePreview(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	p, err := session.GeneratePreview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	renderer, err := h.previews.Get(format)
	if err != nil {
		writeErrorStatus(w, http.StatusBadRequest, err)
		return
	}

	rendered, err := renderer.Render(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rendered)
}

func (h *Handler) getPackage(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	pkg, err := session.GeneratePackage(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="import.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pkg.Data)
}

func (h *Handler) getManifest(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	pkg, err := session.GeneratePackage(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	encoded, err := pkg.Manifest.Encode()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(encoded)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*wizard.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeErrorStatus(w, http.StatusNotFound, fmt.Errorf("api: unknown session"))
		return nil, false
	}
	session, ok := h.store.Get(id)
	if !ok {
		writeErrorStatus(w, http.StatusNotFound, fmt.Errorf("api: unknown session"))
		return nil, false
	}
	return session, true
}
