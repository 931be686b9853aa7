package template

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultRegistryContainsBuiltins(t *testing.T) {
	registry, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}

	want := []Kind{KindEntities, KindStandard, KindTimeseries}
	if diff := cmp.Diff(want, registry.List()); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}

	standard, err := registry.Get(KindStandard)
	if err != nil {
		t.Fatalf("get standard: %v", err)
	}
	if diff := cmp.Diff([]string{"place", "value"}, standard.RequiredFields()); diff != "" {
		t.Fatalf("required fields mismatch (-want +got):\n%s", diff)
	}
	if _, ok := standard.Field("date"); !ok {
		t.Fatalf("expected standard template to declare a date field")
	}
}

func TestGetUnknownKindIsConfigurationError(t *testing.T) {
	registry, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}

	_, err = registry.Get(Kind("unknown"))
	if err == nil {
		t.Fatalf("expected lookup miss")
	}

	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
	}
	if confErr.Template != Kind("unknown") {
		t.Fatalf("error names wrong template: %q", confErr.Template)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	tpl := Template{ID: "custom", Fields: []Field{{Name: "value"}}}

	if err := registry.Register(tpl); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(tpl); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		tpl     Template
		wantErr bool
	}{
		{
			name: "valid",
			tpl:  Template{ID: "custom", Fields: []Field{{Name: "value"}}},
		},
		{
			name:    "missing id",
			tpl:     Template{Fields: []Field{{Name: "value"}}},
			wantErr: true,
		},
		{
			name:    "no fields",
			tpl:     Template{ID: "custom"},
			wantErr: true,
		},
		{
			name:    "duplicate field names",
			tpl:     Template{ID: "custom", Fields: []Field{{Name: "value"}, {Name: "value"}}},
			wantErr: true,
		},
		{
			name:    "unnamed field",
			tpl:     Template{ID: "custom", Fields: []Field{{Label: "Value"}}},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tpl.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
