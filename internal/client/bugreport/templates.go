package bugreport

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"

	"github.com/gigrithm/gigrithm/internal/client/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// defaultFn supports {{ .Value | default "fallback" }}.
func defaultFn(fallback, value string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func funcs() map[string]any {
	return map[string]any{
		"upper":   strings.ToUpper,
		"default": defaultFn,
		"lines":   func(s string) []string { return strings.Split(s, "\n") },
	}
}

var (
	htmlTemplates = htmpl.Must(htmpl.New("bugreport").Funcs(htmpl.FuncMap(funcs())).ParseFS(templateFS, "templates/*.html.tmpl"))
	textTemplates = texttpl.Must(texttpl.New("bugreport").Funcs(texttpl.FuncMap(funcs())).ParseFS(templateFS, "templates/*.subject.tmpl", "templates/*.text.tmpl"))
)

func render(name string, isHTML bool, r *models.BugReport) (string, error) {
	var (
		buf bytes.Buffer
		err error
	)
	if isHTML {
		err = htmlTemplates.ExecuteTemplate(&buf, name, r)
	} else {
		err = textTemplates.ExecuteTemplate(&buf, name, r)
	}
	if err != nil {
		return "", fmt.Errorf("render %q: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
