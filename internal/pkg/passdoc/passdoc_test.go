package passdoc

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/buspass/internal/app/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var testOptions = Options{
	InstitutionName: "Test University",
	Title:           "UNIVERSITY TRANSPORT BUS PASS",
	Footer:          "This is a system generated bus pass receipt.",
	CreatedAt:       day(2026, 10, 1),
}

func render(t *testing.T, doc Document) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, doc, testOptions))
	return buf.String()
}

// shown is how a string appears in the content stream once drawn with
// the UTF-8 fonts: big-endian UTF-16, PDF string escaping applied.
func shown(s string) string {
	var b strings.Builder
	for _, u := range utf16.Encode([]rune(s)) {
		b.WriteByte(byte(u >> 8))
		b.WriteByte(byte(u))
	}
	return strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`, "\r", `\r`).Replace(b.String())
}

func TestNewDocumentState(t *testing.T) {
	student := &models.Student{Name: "Alice", RollNumber: "CS-001", Email: "alice@uni.edu"}
	today := day(2026, 10, 15)

	doc := NewDocument(student, nil, nil, today)
	assert.Equal(t, PassNone, doc.State)
	assert.Nil(t, doc.Pass)
	assert.Nil(t, doc.Route)

	pass := &models.BusPass{PassNumber: "AB12CD34", IssueDate: day(2026, 10, 1), ExpiryDate: today}
	doc = NewDocument(student, nil, pass, today)
	assert.Equal(t, PassActive, doc.State, "a pass expiring today is still active")

	pass.ExpiryDate = day(2026, 10, 14)
	doc = NewDocument(student, nil, pass, today)
	assert.Equal(t, PassExpired, doc.State)
	require.NotNil(t, doc.Pass)
	assert.Equal(t, "AB12CD34", doc.Pass.Number)
}

func TestNewDocumentRoute(t *testing.T) {
	student := &models.Student{Name: "Bob", RollNumber: "ME-1", Email: "bob@uni.edu"}
	route := &models.Route{Name: "R1", StartLocation: "Campus", EndLocation: "City", Capacity: 40}

	doc := NewDocument(student, route, nil, day(2026, 1, 1))
	require.NotNil(t, doc.Route)
	assert.Equal(t, NoDriver, doc.Route.Driver)
	assert.Equal(t, 40, doc.Route.Capacity)

	driver := "Ravi"
	route.DriverName = &driver
	doc = NewDocument(student, route, nil, day(2026, 1, 1))
	assert.Equal(t, "Ravi", doc.Route.Driver)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "BusPass_CS-001.pdf", Document{RollNumber: "CS-001"}.Filename())
	assert.Equal(t, "BusPass_a_b_c.pdf", Document{RollNumber: `a"b/c`}.Filename())
}

func TestRender(t *testing.T) {
	student := &models.Student{Name: "Alice", RollNumber: "CS-001", Email: "alice@uni.edu"}
	route := &models.Route{Name: "R1", StartLocation: "Campus", EndLocation: "City", Capacity: 40}
	today := day(2026, 10, 15)

	t.Run("no pass", func(t *testing.T) {
		out := render(t, NewDocument(student, nil, nil, today))
		assert.True(t, len(out) > 4 && out[:4] == "%PDF")
		assert.Contains(t, out, shown("No active bus pass found."))
		assert.Contains(t, out, shown("Student Name:"))
		assert.NotContains(t, out, shown("Route:"))
	})

	t.Run("active pass with route", func(t *testing.T) {
		pass := &models.BusPass{PassNumber: "AB12CD34", IssueDate: day(2026, 10, 1), ExpiryDate: day(2026, 12, 31)}
		out := render(t, NewDocument(student, route, pass, today))
		assert.Contains(t, out, "("+shown("Active")+")")
		assert.Contains(t, out, shown("AB12CD34"))
		assert.Contains(t, out, shown("2026-12-31"))
		assert.Contains(t, out, shown("Not Assigned"))
		assert.Contains(t, out, shown("R1 (Campus → City)"))
		assert.NotContains(t, out, shown("No active bus pass found."))
	})

	t.Run("expired pass", func(t *testing.T) {
		pass := &models.BusPass{PassNumber: "ZZ99ZZ99", IssueDate: day(2026, 1, 1), ExpiryDate: day(2026, 6, 30)}
		out := render(t, NewDocument(student, nil, pass, today))
		assert.Contains(t, out, "("+shown("Expired")+")")
		assert.NotContains(t, out, "("+shown("Active")+")")
	})

	t.Run("output is reproducible", func(t *testing.T) {
		pass := &models.BusPass{PassNumber: "AB12CD34", IssueDate: day(2026, 10, 1), ExpiryDate: day(2026, 12, 31)}
		doc := NewDocument(student, route, pass, today)
		first := render(t, doc)
		for i := 0; i < 10; i++ {
			require.Equal(t, first, render(t, doc), "render %d differs", i)
		}

		opts := testOptions
		opts.Compress = true
		var a, b bytes.Buffer
		require.NoError(t, Render(&a, doc, opts))
		require.NoError(t, Render(&b, doc, opts))
		assert.Equal(t, a.Bytes(), b.Bytes())
	})

	t.Run("names outside latin-1 keep their characters", func(t *testing.T) {
		intl := &models.Student{Name: "Ananya शर्मा Łukasz", RollNumber: "INT-7", Email: "zoë@uni.edu"}
		out := render(t, NewDocument(intl, nil, nil, today))
		assert.Contains(t, out, shown("Ananya शर्मा Łukasz"))
		assert.Contains(t, out, shown("zoë@uni.edu"))
		assert.NotContains(t, out, "Ananya .....")
	})

	t.Run("state without details fails", func(t *testing.T) {
		var buf bytes.Buffer
		err := Render(&buf, Document{StudentName: "x", State: PassActive}, testOptions)
		assert.Error(t, err)
	})
}
