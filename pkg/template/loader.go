package template

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embeddedTemplates embed.FS

// EmbeddedFS returns the bundled template definitions. Callers may pass this
// filesystem to LoadFS to register the built-in set.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// DefaultRegistry returns a registry populated with the built-in templates.
func DefaultRegistry() (*Registry, error) {
	registry := NewRegistry()
	if err := LoadFS(registry, EmbeddedFS()); err != nil {
		return nil, err
	}
	return registry, nil
}

type documentFile struct {
	Templates []Template `yaml:"templates"`
}

// LoadFS walks the provided filesystem and registers every template found in
// JSON/YAML definition files. When fsys is nil the registry is left untouched.
func LoadFS(registry *Registry, fsys fs.FS) error {
	if registry == nil {
		return fmt.Errorf("template: registry is required")
	}
	if fsys == nil {
		return nil
	}

	return fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if !isTemplateFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("template: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for _, tpl := range doc.Templates {
			if err := registry.Register(tpl); err != nil {
				return fmt.Errorf("template: file %s: %w", path, err)
			}
		}
		return nil
	})
}

func parseDocument(data []byte, source string) (documentFile, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("template: file %s is empty", source)
	}

	var doc documentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("template: parse %s: %w", source, err)
	}
	if len(doc.Templates) == 0 {
		return documentFile{}, fmt.Errorf("template: file %s defines no templates", source)
	}
	return doc, nil
}

func isTemplateFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
