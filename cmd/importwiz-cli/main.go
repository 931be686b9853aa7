package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-importwizard/pkg/mapping"
	"github.com/goliatone/go-importwizard/pkg/preview"
	"github.com/goliatone/go-importwizard/pkg/surfaces/tui"
	"github.com/goliatone/go-importwizard/pkg/tabular"
	"github.com/goliatone/go-importwizard/pkg/template"
	"github.com/goliatone/go-importwizard/pkg/wizard"
)

func main() {
	source := flag.String("source", "", "input CSV path or URL")
	kind := flag.String("template", "standard", "import template kind")
	interactive := flag.Bool("interactive", false, "review the predicted mapping interactively")
	previewFormat := flag.String("preview-format", "", "render a preview (html or json) to stdout")
	output := flag.String("output", "", "output file for the import package (stdout if empty)")
	manifest := flag.String("manifest", "", "output file for the package manifest")
	flag.Parse()

	src, err := parseSource(*source)
	if err != nil {
		log.Fatalf("Invalid source %q: %v", *source, err)
	}

	ctx := context.Background()

	options := []wizard.Option{}
	if *interactive {
		surfaces := wizard.NewSurfaceRegistry()
		for _, builtin := range template.BuiltinKinds() {
			surfaces.MustRegister(tui.New(builtin))
		}
		options = append(options, wizard.WithSurfaces(surfaces))
	}

	session, err := wizard.New(options...)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	if err := session.SetInput(ctx, src); err != nil {
		log.Fatalf("Failed to load input: %v", err)
	}
	if err := session.SetTemplate(ctx, template.Kind(*kind)); err != nil {
		log.Fatalf("Failed to select template: %v", err)
	}
	if warning := session.LastDetectionWarning(); warning != nil {
		log.Printf("Detection warning: %v", warning)
	}

	if *interactive {
		if err := session.Correct(ctx); err != nil {
			log.Fatalf("Failed to collect corrections: %v", err)
		}
	} else {
		printMapping(session)
	}

	p, err := session.GeneratePreview(ctx)
	if err != nil {
		log.Fatalf("Failed to generate preview: %v", err)
	}

	if *previewFormat != "" {
		renderer, err := preview.DefaultRegistry().Get(*previewFormat)
		if err != nil {
			log.Fatalf("Unknown preview format: %v", err)
		}
		rendered, err := renderer.Render(ctx, p)
		if err != nil {
			log.Fatalf("Failed to render preview: %v", err)
		}
		fmt.Println(string(rendered))
	}

	pkg, err := session.GeneratePackage(ctx)
	if err != nil {
		log.Fatalf("Failed to generate package: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, pkg.Data, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Import package written to %s (%d rows)\n", *output, p.TotalRows)
	} else if *previewFormat == "" {
		fmt.Print(string(pkg.Data))
	}

	if *manifest != "" {
		encoded, err := pkg.Manifest.Encode()
		if err != nil {
			log.Fatalf("Failed to encode manifest: %v", err)
		}
		if err := os.WriteFile(*manifest, encoded, 0o644); err != nil {
			log.Fatalf("Failed to write manifest: %v", err)
		}
		fmt.Printf("Manifest written to %s\n", *manifest)
	}
}

func printMapping(session *wizard.Session) {
	tpl, ok := session.Template()
	if !ok {
		return
	}
	effective := session.EffectiveMapping()
	for _, field := range tpl.Fields {
		entry, mapped := effective[field.Name]
		switch {
		case !mapped:
			log.Printf("Mapping: %s -> (unmapped)", field.Name)
		case entry.Kind == mapping.EntryKindConstant:
			log.Printf("Mapping: %s -> constant %q", field.Name, entry.Constant)
		default:
			log.Printf("Mapping: %s -> column %q", field.Name, entry.Column.Name)
		}
	}
}

func parseSource(raw string) (tabular.Source, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil, fmt.Errorf("source path or URL is required")
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return tabular.ParseURLSource(path)
	}
	return tabular.SourceFromFile(path), nil
}
