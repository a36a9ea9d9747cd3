// Package web holds the embedded HTML templates of the office screens.
package web

import (
	"embed"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/app/models/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

// FuncMap is available to every template
var FuncMap = template.FuncMap{
	"fieldErrors": func(errs interface{}, field string) []string {
		return asErrors(errs).For(field)
	},
	"formErrors": func(errs interface{}) []string {
		return asErrors(errs).For(dto.NonFieldErrors)
	},
	"date": func(t time.Time) string {
		return t.Format(models.DateLayout)
	},
	"pageURL": func(query string, page int) string {
		v := url.Values{}
		if query != "" {
			v.Set("q", query)
		}
		v.Set("page", strconv.Itoa(page))
		return "?" + v.Encode()
	},
	"selected": func(current string, id int64) bool {
		return current == strconv.FormatInt(id, 10)
	},
}

// asErrors accepts a missing value so pages without a form still render
func asErrors(v interface{}) *dto.ValidationErrors {
	errs, _ := v.(*dto.ValidationErrors)
	return errs
}

// Templates parses every page. Each file is addressed by its base name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates is Templates for startup and tests
func MustTemplates() *template.Template {
	t, err := Templates()
	if err != nil {
		panic(err)
	}
	return t
}
