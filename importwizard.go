package importwizard

import (
	"context"

	"github.com/goliatone/go-importwizard/pkg/export"
	"github.com/goliatone/go-importwizard/pkg/mapping"
	"github.com/goliatone/go-importwizard/pkg/preview"
	"github.com/goliatone/go-importwizard/pkg/tabular"
	"github.com/goliatone/go-importwizard/pkg/template"
	"github.com/goliatone/go-importwizard/pkg/wizard"
)

// Mapping associates target fields with source columns or constants; alias
// exported via the root package for convenience.
type Mapping = mapping.Mapping

// ValueMap records detected cell normalizations for place columns.
type ValueMap = mapping.ValueMap

// Template describes a target import schema.
type Template = template.Template

// Preview is the reviewable projection of the effective mapping.
type Preview = preview.Preview

// Package is the generated import artifact with its manifest.
type Package = export.Package

// Session drives the upload, predict, correct, preview, and export workflow.
type Session = wizard.Session

// SourceFromFile builds a local-path input source.
func SourceFromFile(path string) tabular.Source {
	return tabular.SourceFromFile(path)
}

// SourceFromURL builds an HTTP(S) input source.
func SourceFromURL(raw string) tabular.Source {
	return tabular.SourceFromURL(raw)
}

// NewSession exposes the session constructor from the top-level module.
func NewSession(options ...wizard.Option) (*wizard.Session, error) {
	return wizard.New(options...)
}

// Import loads a tabular source, applies the named template, and produces the
// import package in one pass. It is the simplest entry point for callers that
// accept the predicted mapping as-is.
func Import(ctx context.Context, src tabular.Source, kind template.Kind, options ...wizard.Option) (export.Package, error) {
	session, err := wizard.New(options...)
	if err != nil {
		return export.Package{}, err
	}
	if err := session.SetInput(ctx, src); err != nil {
		return export.Package{}, err
	}
	if err := session.SetTemplate(ctx, kind); err != nil {
		return export.Package{}, err
	}
	if _, err := session.GeneratePreview(ctx); err != nil {
		return export.Package{}, err
	}
	return session.GeneratePackage(ctx)
}

// BuiltinTemplates exposes the embedded template registry so callers can
// extend it without importing the template package directly.
func BuiltinTemplates() (*template.Registry, error) {
	return template.DefaultRegistry()
}
