// Package wizard implements the mapping-state reconciliation workflow of the
// import wizard: load tabular input, predict a column-to-schema mapping for
// the selected template, collect user corrections through a registered
// surface, and gate preview plus package generation on explicit request and
// mapping completeness.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-importwizard/pkg/detect"
	"github.com/goliatone/go-importwizard/pkg/export"
	"github.com/goliatone/go-importwizard/pkg/mapping"
	"github.com/goliatone/go-importwizard/pkg/preview"
	"github.com/goliatone/go-importwizard/pkg/tabular"
	"github.com/goliatone/go-importwizard/pkg/template"
)

const defaultPreviewRows = 20

// Option customises a Session.
type Option func(*Session)

// WithLoader injects a custom tabular loader.
func WithLoader(loader tabular.Loader) Option {
	return func(s *Session) {
		s.loader = loader
	}
}

// WithDetector injects a custom mapping detector.
func WithDetector(detector detect.Detector) Option {
	return func(s *Session) {
		s.detector = detector
	}
}

// WithTemplates injects a template registry.
func WithTemplates(registry *template.Registry) Option {
	return func(s *Session) {
		s.templates = registry
	}
}

// WithSurfaces injects a correction surface registry.
func WithSurfaces(registry *SurfaceRegistry) Option {
	return func(s *Session) {
		s.surfaces = registry
	}
}

// WithExporter injects a package exporter.
func WithExporter(exporter export.Exporter) Option {
	return func(s *Session) {
		s.exporter = exporter
	}
}

// WithPreviewRows bounds how many translated rows a preview carries.
func WithPreviewRows(rows int) Option {
	return func(s *Session) {
		if rows > 0 {
			s.previewRows = rows
		}
	}
}

// WithID pins the session identifier. Servers use it to rehydrate handles.
func WithID(id uuid.UUID) Option {
	return func(s *Session) {
		s.id = id
	}
}

// Session is one wizard step: long-lived for the duration of the mapping
// exercise, with no terminal state. Missing dependencies are initialised with
// the built-in implementations so callers can start with a single constructor
// call.
type Session struct {
	id          uuid.UUID
	loader      tabular.Loader
	detector    detect.Detector
	templates   *template.Registry
	surfaces    *SurfaceRegistry
	exporter    export.Exporter
	previewRows int

	mu          sync.Mutex
	state       State
	doc         tabular.Document
	table       *tabular.Table
	hasInput    bool
	tpl         template.Template
	hasTemplate bool
	predicted   mapping.Mapping
	valueMap    mapping.ValueMap
	user        mapping.Mapping
	warning     error
	preview     *preview.Preview
}

// New constructs a Session applying any provided options.
func New(options ...Option) (*Session, error) {
	s := &Session{
		id:          uuid.New(),
		previewRows: defaultPreviewRows,
		state:       StateInitial,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.loader == nil {
		s.loader = tabular.NewLoader(tabular.WithHTTP(true))
	}
	if s.detector == nil {
		detector, err := detect.NewHeuristic()
		if err != nil {
			return nil, fmt.Errorf("wizard: default detector: %w", err)
		}
		s.detector = detector
	}
	if s.templates == nil {
		registry, err := template.DefaultRegistry()
		if err != nil {
			return nil, fmt.Errorf("wizard: default templates: %w", err)
		}
		s.templates = registry
	}
	if s.surfaces == nil {
		s.surfaces = NewSurfaceRegistry()
	}
	if s.exporter == nil {
		s.exporter = export.NewCSVExporter()
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Templates exposes the registry backing SetTemplate.
func (s *Session) Templates() *template.Registry {
	return s.templates
}

// Template returns the active target template, if one is selected.
func (s *Session) Template() (template.Template, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tpl, s.hasTemplate
}

// Columns returns the source columns of the active input in table order.
func (s *Session) Columns() []tabular.Column {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return nil
	}
	return append([]tabular.Column{}, s.table.Columns...)
}

// SetInput loads, parses, and activates a new tabular input, then recomputes
// the predicted mapping. Corrections and any visible preview belong to the
// previous input and are discarded.
func (s *Session) SetInput(ctx context.Context, src tabular.Source, parseOptions ...tabular.ParseOption) error {
	doc, err := s.loader.Load(ctx, src)
	if err != nil {
		return err
	}
	return s.SetInputDocument(ctx, doc, parseOptions...)
}

// SetInputDocument activates an already-loaded document. Re-submitting input
// that parses to the current table is a no-op: corrections and any visible
// preview survive, since nothing they describe has changed.
func (s *Session) SetInputDocument(ctx context.Context, doc tabular.Document, parseOptions ...tabular.ParseOption) error {
	table, err := tabular.Parse(doc, parseOptions...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasInput && s.table.Equal(table) {
		s.doc = doc
		return nil
	}

	s.doc = doc
	s.table = table
	s.hasInput = true
	return s.recompute(ctx)
}

// SetTemplate selects the target template and recomputes the predicted
// mapping. An unregistered kind is a ConfigurationError and leaves the
// session untouched.
func (s *Session) SetTemplate(ctx context.Context, kind template.Kind) error {
	tpl, err := s.templates.Get(kind)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tpl = tpl
	s.hasTemplate = true
	return s.recompute(ctx)
}

// recompute replaces the predicted mapping from the current (input, template)
// pair. Detection failures fall back to an empty prediction and are kept as a
// non-blocking warning. Callers hold s.mu.
func (s *Session) recompute(ctx context.Context) error {
	s.user = nil
	s.preview = nil
	s.warning = nil
	s.predicted = nil
	s.valueMap = nil

	if !s.hasInput || !s.hasTemplate {
		s.state = StateInitial
		return nil
	}

	predicted, valueMap, err := s.detector.Predict(ctx, s.table, s.tpl)
	switch {
	case err == nil:
		s.predicted = predicted
		s.valueMap = valueMap
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.state = StateInitial
		return err
	default:
		s.warning = err
	}

	s.state = StatePredicted
	return nil
}

// PredictedMapping returns an independent copy of the machine prediction.
func (s *Session) PredictedMapping() mapping.Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.predicted.Clone()
}

// UserMapping returns an independent copy of the collected corrections.
func (s *Session) UserMapping() mapping.Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

// ValueMap returns an independent copy of the detected normalizations.
func (s *Session) ValueMap() mapping.ValueMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valueMap.Clone()
}

// EffectiveMapping overlays the user corrections on the prediction.
func (s *Session) EffectiveMapping() mapping.Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mapping.Merge(s.predicted, s.user)
}

// LastDetectionWarning returns the detection failure of the most recent
// recompute, or nil.
func (s *Session) LastDetectionWarning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warning
}

// SetUserMapping replaces the user mapping wholesale. The prediction is never
// touched.
func (s *Session) SetUserMapping(m mapping.Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateInitial {
		return ErrNoInput
	}
	s.user = m.Clone()
	return nil
}

// Correct dispatches the correction surface registered for the active
// template and stores the mapping it returns.
func (s *Session) Correct(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateInitial {
		s.mu.Unlock()
		return ErrNoInput
	}
	surface, err := s.surfaces.Get(s.tpl.ID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	req := SurfaceRequest{
		Template:  s.tpl,
		Columns:   append([]tabular.Column(nil), s.table.Columns...),
		Predicted: s.predicted.Clone(),
		Current:   s.user.Clone(),
	}
	s.mu.Unlock()

	corrected, err := surface.Correct(ctx, req)
	if err != nil {
		return err
	}
	return s.SetUserMapping(corrected)
}

// CanPreview reports whether GeneratePreview would succeed: input and
// template selected, effective mapping complete.
func (s *Session) CanPreview() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasInput || !s.hasTemplate {
		return false
	}
	effective := mapping.Merge(s.predicted, s.user)
	return effective.Complete(s.tpl.RequiredFields())
}

// GeneratePreview materializes the preview on explicit request. No preview
// work happens before this call. An incomplete mapping returns
// ErrMappingIncomplete so callers disable, rather than break, the action.
func (s *Session) GeneratePreview(ctx context.Context) (preview.Preview, error) {
	if err := ctx.Err(); err != nil {
		return preview.Preview{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasInput {
		return preview.Preview{}, ErrNoInput
	}
	if !s.hasTemplate {
		return preview.Preview{}, ErrNoTemplate
	}

	effective := mapping.Merge(s.predicted, s.user)
	if !effective.Complete(s.tpl.RequiredFields()) {
		return preview.Preview{}, ErrMappingIncomplete
	}

	req := export.Request{
		Table:    s.table,
		Template: s.tpl,
		Mapping:  effective,
		ValueMap: s.valueMap,
	}

	var fields []string
	for _, field := range s.tpl.Fields {
		if _, ok := effective[field.Name]; ok {
			fields = append(fields, field.Name)
		}
	}

	limit := len(s.table.Rows)
	if limit > s.previewRows {
		limit = s.previewRows
	}
	rows := make([][]string, 0, limit)
	for row := 0; row < limit; row++ {
		record := make([]string, len(fields))
		for i, field := range fields {
			record[i] = export.Translate(req, field, row)
		}
		rows = append(rows, record)
	}

	p := preview.Preview{
		Template:        s.tpl,
		Fields:          fields,
		Mapping:         effective,
		Rows:            rows,
		TotalRows:       len(s.table.Rows),
		NeedsGeneration: ShouldGenerate(s.predicted, effective, s.valueMap),
		ValueMap:        s.valueMap.Clone(),
	}

	s.preview = &p
	s.state = StatePreviewRequested
	return p, nil
}

// Preview returns the materialized preview, if one was requested.
func (s *Session) Preview() (preview.Preview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.preview == nil {
		return preview.Preview{}, false
	}
	return *s.preview, true
}

// GeneratePackage exports the import package for the previewed mapping. It
// requires a prior GeneratePreview so the caller has seen what will ship.
func (s *Session) GeneratePackage(ctx context.Context) (export.Package, error) {
	s.mu.Lock()
	if s.state != StatePreviewRequested || s.preview == nil {
		s.mu.Unlock()
		return export.Package{}, ErrPreviewNotRequested
	}
	req := export.Request{
		Table:     s.table,
		Original:  s.doc,
		Template:  s.tpl,
		Mapping:   s.preview.Mapping,
		ValueMap:  s.valueMap,
		Translate: s.preview.NeedsGeneration,
	}
	exporter := s.exporter
	s.mu.Unlock()

	return exporter.Export(ctx, req)
}

// Reset returns the session to its initial state, dropping input, template,
// mappings, and preview.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateInitial
	s.doc = tabular.Document{}
	s.table = nil
	s.hasInput = false
	s.tpl = template.Template{}
	s.hasTemplate = false
	s.predicted = nil
	s.valueMap = nil
	s.user = nil
	s.warning = nil
	s.preview = nil
}

// ShouldGenerate decides whether a translated CSV must be produced: yes when
// the effective mapping deviates from the prediction, when any field is a
// constant, or when place values need normalization. Otherwise the original
// file can be imported unchanged.
func ShouldGenerate(predicted, effective mapping.Mapping, vm mapping.ValueMap) bool {
	if !predicted.Equal(effective) {
		return true
	}
	if effective.HasConstant() {
		return true
	}
	return !vm.Empty()
}
