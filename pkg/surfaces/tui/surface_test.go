package tui

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-importwizard/pkg/mapping"
	"github.com/goliatone/go-importwizard/pkg/tabular"
	"github.com/goliatone/go-importwizard/pkg/template"
	"github.com/goliatone/go-importwizard/pkg/wizard"
)

// scriptedDriver replays canned prompt answers and records the prompts it saw.
type scriptedDriver struct {
	selections []int
	inputs     []string
	prompts    []SelectConfig
}

func (d *scriptedDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	d.prompts = append(d.prompts, cfg)
	if len(d.selections) == 0 {
		return 0, nil
	}
	next := d.selections[0]
	d.selections = d.selections[1:]
	return next, nil
}

func (d *scriptedDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", nil
	}
	next := d.inputs[0]
	d.inputs = d.inputs[1:]
	return next, nil
}

func (d *scriptedDriver) Info(ctx context.Context, msg string) error {
	return nil
}

func surfaceRequest() wizard.SurfaceRequest {
	return wizard.SurfaceRequest{
		Template: template.Template{
			ID: template.KindStandard,
			Fields: []template.Field{
				{Name: "place", Label: "Place", Required: true},
				{Name: "year", Label: "Year"},
				{Name: "value", Label: "Value", Required: true},
			},
		},
		Columns: []tabular.Column{
			{Name: "Country", Index: 0},
			{Name: "Year", Index: 1},
			{Name: "Total", Index: 2},
		},
		Predicted: mapping.Mapping{
			"year": mapping.ColumnEntry(tabular.Column{Name: "Year", Index: 1}),
		},
	}
}

func TestCorrectCollectsSelections(t *testing.T) {
	driver := &scriptedDriver{
		// Options are [unmapped, constant, Country, Year, Total].
		selections: []int{2, 1, 4},
		inputs:     []string{"2021"},
	}
	surface := New(template.KindStandard, WithDriver(driver))

	corrected, err := surface.Correct(context.Background(), surfaceRequest())
	if err != nil {
		t.Fatalf("correct: %v", err)
	}

	want := mapping.Mapping{
		"place": mapping.ColumnEntry(tabular.Column{Name: "Country", Index: 0}),
		"year":  mapping.ConstantEntry("2021"),
		"value": mapping.ColumnEntry(tabular.Column{Name: "Total", Index: 2}),
	}
	if diff := cmp.Diff(want, corrected); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestCorrectDefaultsFollowPrediction(t *testing.T) {
	driver := &scriptedDriver{selections: []int{0, 0, 0}}
	surface := New(template.KindStandard, WithDriver(driver))

	if _, err := surface.Correct(context.Background(), surfaceRequest()); err != nil {
		t.Fatalf("correct: %v", err)
	}

	if len(driver.prompts) != 3 {
		t.Fatalf("expected one prompt per field, got %d", len(driver.prompts))
	}
	// place has no prediction: defaults to unmapped.
	if driver.prompts[0].DefaultIndex != 0 {
		t.Fatalf("place default mismatch: %d", driver.prompts[0].DefaultIndex)
	}
	// year is predicted from the Year column at options index 3.
	if driver.prompts[1].DefaultIndex != 3 {
		t.Fatalf("year default mismatch: %d", driver.prompts[1].DefaultIndex)
	}
}

func TestCorrectAllUnmappedYieldsNil(t *testing.T) {
	driver := &scriptedDriver{selections: []int{0, 0, 0}}
	surface := New(template.KindStandard, WithDriver(driver))

	corrected, err := surface.Correct(context.Background(), surfaceRequest())
	if err != nil {
		t.Fatalf("correct: %v", err)
	}
	if corrected != nil {
		t.Fatalf("expected nil mapping, got %#v", corrected)
	}
}

func TestCorrectEmptyConstantLeavesFieldUnmapped(t *testing.T) {
	driver := &scriptedDriver{
		selections: []int{1, 0, 0},
		inputs:     []string{""},
	}
	surface := New(template.KindStandard, WithDriver(driver))

	corrected, err := surface.Correct(context.Background(), surfaceRequest())
	if err != nil {
		t.Fatalf("correct: %v", err)
	}
	if _, ok := corrected["place"]; ok {
		t.Fatalf("expected empty constant to leave place unmapped, got %#v", corrected)
	}
}
