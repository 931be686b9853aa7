package preview

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// htmlRenderer produces a standalone HTML table of the preview. Cell content
// originates from user uploads, so everything passes through a strict
// sanitizer before templating.
type htmlRenderer struct{}

// NewHTMLRenderer returns the html preview renderer.
func NewHTMLRenderer() Renderer {
	return &htmlRenderer{}
}

func (r *htmlRenderer) Name() string {
	return "html"
}

func (r *htmlRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

var previewTemplate = template.Must(template.New("preview").Parse(`<section class="import-preview">
  <h2>{{.Title}}</h2>
  {{- if .Description}}
  <p>{{.Description}}</p>
  {{- end}}
  <p class="import-preview-note">Showing {{.Shown}} of {{.Total}} rows.{{if .NeedsGeneration}} A translated CSV will be generated.{{else}} The original file can be imported unchanged.{{end}}</p>
  <table>
    <thead>
      <tr>
        {{- range .Fields}}
        <th>{{.}}</th>
        {{- end}}
      </tr>
    </thead>
    <tbody>
      {{- range .Rows}}
      <tr>
        {{- range .}}
        <td>{{.}}</td>
        {{- end}}
      </tr>
      {{- end}}
    </tbody>
  </table>
</section>
`))

type htmlPreviewData struct {
	Title           string
	Description     string
	Fields          []string
	Rows            [][]string
	Shown           int
	Total           int
	NeedsGeneration bool
}

func (r *htmlRenderer) Render(ctx context.Context, p Preview) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := htmlPreviewData{
		Title:           sanitize(p.Template.Title),
		Description:     sanitize(p.Template.Description),
		Shown:           len(p.Rows),
		Total:           p.TotalRows,
		NeedsGeneration: p.NeedsGeneration,
	}
	if data.Title == "" {
		data.Title = string(p.Template.ID)
	}
	for _, field := range p.Fields {
		data.Fields = append(data.Fields, sanitize(field))
	}
	for _, row := range p.Rows {
		clean := make([]string, 0, len(row))
		for _, cell := range row {
			clean = append(clean, sanitize(cell))
		}
		data.Rows = append(data.Rows, clean)
	}

	var buf bytes.Buffer
	if err := previewTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	cellPolicyOnce sync.Once
	cellPolicy     *bluemonday.Policy
)

func sanitize(raw string) string {
	cellPolicyOnce.Do(func() {
		cellPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(cellPolicy.Sanitize(raw))
}
