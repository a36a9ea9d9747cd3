package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/app/models/dto"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"login.html", "home.html", "add_student.html", "issue_bus_pass.html",
		"bus_routes.html", "add_route.html", "not_found.html", "error.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestHomeRendersPagination(t *testing.T) {
	tmpl := MustTemplates()
	page := &dto.StudentPage{
		Query:    "a&b",
		Students: []*models.Student{{ID: 7, Name: "Alice", RollNumber: "A1", Email: "a@x.com"}},
		Pagination: dto.PaginationInfo{
			CurrentPage: 2, TotalPages: 3, HasNext: true, HasPrevious: true, NextPage: 3, PreviousPage: 1,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "home.html", map[string]interface{}{"Page": page}))
	out := buf.String()
	assert.Contains(t, out, "Page 2 of 3.")
	assert.Contains(t, out, "/download_pass/7/")
	assert.Contains(t, out, "page=3&amp;q=a%26b")
}

func TestFormErrorsRender(t *testing.T) {
	tmpl := MustTemplates()
	errs := dto.NewValidationErrors().AddError("roll_number", "Student with this Roll number already exists.")

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "add_student.html", map[string]interface{}{
		"Form":   dto.StudentForm{Name: "<b>Alice</b>"},
		"Errors": errs,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Student with this Roll number already exists.")
	assert.Contains(t, buf.String(), "&lt;b&gt;Alice&lt;/b&gt;")
}
