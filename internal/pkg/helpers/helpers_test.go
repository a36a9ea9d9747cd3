package helpers

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	assert.Equal(t, 3, ParsePage("3"))
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, -2, ParsePage(" -2 "))
}

func TestParsePageOverflowClampsToLastPage(t *testing.T) {
	huge := ParsePage("99999999999999999999")
	assert.Equal(t, math.MaxInt, huge)
	assert.Equal(t, 3, NewPaginationInfo(23, huge, DefaultPageSize).CurrentPage)

	tiny := ParsePage("-99999999999999999999")
	assert.Equal(t, 1, NewPaginationInfo(23, tiny, DefaultPageSize).CurrentPage)
}

func TestNewPaginationInfo(t *testing.T) {
	tests := []struct {
		name                string
		total               int64
		page                int
		wantPage, wantPages int
		wantNext, wantPrev  bool
	}{
		{"empty listing", 0, 1, 1, 1, false, false},
		{"empty listing far page", 0, 9, 1, 1, false, false},
		{"exactly one page", 10, 1, 1, 1, false, false},
		{"first of three", 23, 1, 1, 3, true, false},
		{"middle", 23, 2, 2, 3, true, true},
		{"last", 23, 3, 3, 3, false, true},
		{"past the end clamps to last", 23, 99, 3, 3, false, true},
		{"zero clamps to first", 23, 0, 1, 3, true, false},
		{"negative clamps to first", 23, -4, 1, 3, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPaginationInfo(tt.total, tt.page, DefaultPageSize)
			assert.Equal(t, tt.wantPage, info.CurrentPage)
			assert.Equal(t, tt.wantPages, info.TotalPages)
			assert.Equal(t, tt.wantNext, info.HasNext)
			assert.Equal(t, tt.wantPrev, info.HasPrevious)
		})
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(NewPaginationInfo(23, 3, 10))
	assert.EqualValues(t, 20, offset)
	assert.Equal(t, 10, limit)
}

func TestNullIfBlank(t *testing.T) {
	assert.Nil(t, NullIfBlank("   "))
	require.NotNil(t, NullIfBlank(" Ravi "))
	assert.Equal(t, "Ravi", *NullIfBlank(" Ravi "))
}

func TestParseDateAndClock(t *testing.T) {
	d, err := ParseDate("2026-11-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 11, 14, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("14/11/2026")
	assert.Error(t, err)

	ist := time.FixedZone("IST", 5*3600+1800)
	clock := Clock(func() time.Time { return time.Date(2026, 10, 15, 23, 45, 0, 0, ist) })
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), clock.Today())

	assert.Equal(t, 5*time.Second, ParseDuration("5s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
}
