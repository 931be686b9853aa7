package detect

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-importwizard/pkg/mapping"
	"github.com/goliatone/go-importwizard/pkg/places"
	"github.com/goliatone/go-importwizard/pkg/tabular"
	"github.com/goliatone/go-importwizard/pkg/template"
)

const (
	defaultSampleRows = 100
	defaultThreshold  = 0.7
)

// Option customises the heuristic detector.
type Option func(*Heuristic)

// WithSampleRows bounds how many data rows value-based passes inspect per
// column. Zero or negative restores the default.
func WithSampleRows(rows int) Option {
	return func(h *Heuristic) {
		if rows > 0 {
			h.sampleRows = rows
		}
	}
}

// WithThreshold sets the minimum share of sampled cells that must match a
// value heuristic before the column is claimed. Accepts (0, 1].
func WithThreshold(threshold float64) Option {
	return func(h *Heuristic) {
		if threshold > 0 && threshold <= 1 {
			h.threshold = threshold
		}
	}
}

// WithPlaceResolver overrides the place data consulted for place-typed fields.
func WithPlaceResolver(resolver *places.Resolver) Option {
	return func(h *Heuristic) {
		h.places = resolver
	}
}

// Heuristic is the default Detector. It runs a header pass first, matching
// column names against target field names, labels, and aliases, then a value
// pass for remaining typed fields, sampling cell contents.
type Heuristic struct {
	sampleRows int
	threshold  float64
	places     *places.Resolver
}

// Ensure the implementation satisfies the interface.
var _ Detector = (*Heuristic)(nil)

// NewHeuristic constructs the default detector. The embedded country set
// backs place detection unless a resolver is supplied.
func NewHeuristic(options ...Option) (*Heuristic, error) {
	h := &Heuristic{
		sampleRows: defaultSampleRows,
		threshold:  defaultThreshold,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	if h.places == nil {
		resolver, err := places.NewResolver()
		if err != nil {
			return nil, err
		}
		h.places = resolver
	}
	return h, nil
}

// Predict derives the mapping for tpl over table. Each source column is
// claimed by at most one target field; header matches win over value matches.
func (h *Heuristic) Predict(ctx context.Context, table *tabular.Table, tpl template.Template) (mapping.Mapping, mapping.ValueMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if table == nil {
		return nil, nil, &Error{Template: tpl.ID, Err: errors.New("table is nil")}
	}
	if err := tpl.Validate(); err != nil {
		return nil, nil, &Error{Template: tpl.ID, Err: err}
	}

	predicted := make(mapping.Mapping)
	claimed := make(map[int]struct{}, len(table.Columns))

	for _, field := range tpl.Fields {
		col, ok := h.matchHeader(table, field, claimed)
		if !ok {
			continue
		}
		predicted[field.Name] = mapping.ColumnEntry(col)
		claimed[col.Index] = struct{}{}
	}

	valueMap := make(mapping.ValueMap)
	for _, field := range tpl.Fields {
		if _, done := predicted[field.Name]; done {
			// Header-matched place columns still contribute normalizations.
			if field.Type == template.FieldTypePlace {
				h.collectPlaceValues(table, predicted[field.Name].Column, valueMap)
			}
			continue
		}
		col, ok := h.matchValues(table, field, claimed, valueMap)
		if !ok {
			continue
		}
		predicted[field.Name] = mapping.ColumnEntry(col)
		claimed[col.Index] = struct{}{}
	}

	if len(valueMap) == 0 {
		valueMap = nil
	}
	if len(predicted) == 0 {
		predicted = nil
	}
	return predicted, valueMap, nil
}

func (h *Heuristic) matchHeader(table *tabular.Table, field template.Field, claimed map[int]struct{}) (tabular.Column, bool) {
	candidates := make([]string, 0, len(field.Aliases)+2)
	candidates = append(candidates, field.Name)
	if field.Label != "" {
		candidates = append(candidates, field.Label)
	}
	candidates = append(candidates, field.Aliases...)

	for _, candidate := range candidates {
		for _, col := range table.Columns {
			if _, taken := claimed[col.Index]; taken {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(col.Name), strings.TrimSpace(candidate)) {
				return col, true
			}
		}
	}
	return tabular.Column{}, false
}

func (h *Heuristic) matchValues(table *tabular.Table, field template.Field, claimed map[int]struct{}, valueMap mapping.ValueMap) (tabular.Column, bool) {
	var score func(string) (string, bool)
	switch field.Type {
	case template.FieldTypePlace:
		score = h.scorePlace
	case template.FieldTypeYear:
		score = scoreYear
	case template.FieldTypeDate:
		score = scoreDate
	default:
		return tabular.Column{}, false
	}

	bestShare := h.threshold
	var best tabular.Column
	found := false

	for _, col := range table.Columns {
		if _, taken := claimed[col.Index]; taken {
			continue
		}
		share, _ := h.columnShare(table, col, score, nil)
		if share >= bestShare && (!found || share > bestShare) {
			best = col
			bestShare = share
			found = true
		}
	}
	if !found {
		return tabular.Column{}, false
	}

	if field.Type == template.FieldTypePlace {
		h.collectPlaceValues(table, best, valueMap)
	}
	return best, true
}

// columnShare samples up to sampleRows non-empty cells and returns the share
// matched by score. Normalized values are recorded into collect when non-nil.
func (h *Heuristic) columnShare(table *tabular.Table, col tabular.Column, score func(string) (string, bool), collect mapping.ValueMap) (float64, int) {
	sampled := 0
	matched := 0
	for row := 0; row < len(table.Rows) && sampled < h.sampleRows; row++ {
		cell := strings.TrimSpace(table.Cell(row, col))
		if cell == "" {
			continue
		}
		sampled++
		canonical, ok := score(cell)
		if !ok {
			continue
		}
		matched++
		if collect != nil && canonical != cell {
			collect[cell] = canonical
		}
	}
	if sampled == 0 {
		return 0, 0
	}
	return float64(matched) / float64(sampled), sampled
}

func (h *Heuristic) collectPlaceValues(table *tabular.Table, col tabular.Column, valueMap mapping.ValueMap) {
	h.columnShare(table, col, h.scorePlace, valueMap)
}

func (h *Heuristic) scorePlace(cell string) (string, bool) {
	place, ok := h.places.Resolve(cell)
	if !ok {
		return "", false
	}
	return place.ID(), true
}

var yearPattern = regexp.MustCompile(`^[12]\d{3}$`)

func scoreYear(cell string) (string, bool) {
	if !yearPattern.MatchString(cell) {
		return "", false
	}
	if _, err := strconv.Atoi(cell); err != nil {
		return "", false
	}
	return cell, true
}

var dateLayouts = []string{"2006-01-02", "2006-01", "01/02/2006", "2006"}

func scoreDate(cell string) (string, bool) {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, cell); err == nil {
			return cell, true
		}
	}
	return "", false
}
