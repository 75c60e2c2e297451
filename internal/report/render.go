package report

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/dgallion1/awaketiger/internal/doctree"
	"github.com/dgallion1/awaketiger/internal/stockcode"
)

// Variant selects how the stock code cell is rendered.
type Variant string

const (
	VariantLink Variant = "link" // anchor to the news page for the code
	VariantCode Variant = "code" // bare code or sentinel text
)

// DefaultLinkTemplate is the news page for a stock code; %s is the code.
const DefaultLinkTemplate = "https://m.stock.naver.com/domestic/stock/%s/news/title"

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(s)); v {
	case VariantLink, VariantCode:
		return v, nil
	default:
		return "", fmt.Errorf("unknown render variant %q: want %q or %q", s, VariantLink, VariantCode)
	}
}

const tableTemplate = `<table>{{range .}}<tr>` +
	`<td class="no">{{.Seq}}</td>` +
	`<td class="date">{{.Date}}</td>` +
	`<td class="company">{{.Company}}</td>` +
	`<td class="report_type">{{.ReportType}}</td>` +
	`<td class="body"><pre>{{.Body}}</pre></td>` +
	`<td class="link">{{raw .TrailingLink}}</td>` +
	`<td class="news-link">{{codeCell .StockCode}}</td>` +
	`</tr>{{end}}</table>`

// Renderer serializes rows into a single HTML table fragment.
type Renderer struct {
	variant      Variant
	linkTemplate string
	tmpl         *template.Template
}

func NewRenderer(variant Variant, linkTemplate string) (*Renderer, error) {
	if linkTemplate == "" {
		linkTemplate = DefaultLinkTemplate
	}
	if !strings.Contains(linkTemplate, "%s") {
		return nil, fmt.Errorf("link template %q has no %%s placeholder", linkTemplate)
	}

	r := &Renderer{variant: variant, linkTemplate: linkTemplate}
	tmpl, err := template.New("table").Funcs(template.FuncMap{
		"raw":      func(s string) template.HTML { return template.HTML(s) },
		"codeCell": r.codeCell,
	}).Parse(tableTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Render writes all rows in order wrapped in one <table>.
func (r *Renderer) Render(w io.Writer, rows []doctree.OutputRow) error {
	if err := r.tmpl.Execute(w, rows); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

func (r *Renderer) codeCell(code string) template.HTML {
	text := html.EscapeString(code)
	if r.variant != VariantLink || code == stockcode.None {
		return template.HTML(text)
	}
	href := fmt.Sprintf(r.linkTemplate, url.PathEscape(code))
	return template.HTML(`<a href="` + html.EscapeString(href) + `">` + text + `</a>`)
}
