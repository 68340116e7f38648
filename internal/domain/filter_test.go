package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"keeps allowed characters", "cat_01-A", "cat_01-A"},
		{"drops everything else", "a b!c;DROP TABLE", "abcDROPTABLE"},
		{"unicode is dropped", "кат123", "123"},
		{"empty stays empty", "", ""},
		{"only junk", "$$$ ///", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeID(tt.raw))
		})
	}
}

func TestSanitizeID_TruncatesToMaxLength(t *testing.T) {
	got := SanitizeID(strings.Repeat("ab!", 50))

	assert.Len(t, got, MaxIDLength)
	for _, c := range []byte(got) {
		assert.True(t, isIDChar(c), "unexpected char %q", c)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", DefaultLimit},
		{"abc", DefaultLimit},
		{"20", 20},
		{"0", 1},
		{"-5", 1},
		{"121", MaxLimit},
		{"99999999999999999999999", MaxLimit},
		{"12abc", 12},
		{"  7", 7},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ClampLimit(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, MaxLimit)
		})
	}
}

func TestClampOffset(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"x", 0},
		{"-3", 0},
		{"40", 40},
		{"15.9", 15},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampOffset(tt.raw))
		})
	}
}

func TestNewFilterQuery(t *testing.T) {
	q := NewFilterQuery(RawFilterQuery{
		Q:        "  pen  ",
		Category: " root1 ",
		Sub:      "child<1>",
		Print:    "color",
		Limit:    "1",
		Offset:   "nope",
	})

	assert.Equal(t, FilterQuery{
		Q:          "pen",
		CategoryID: "root1",
		SubID:      "child1",
		Print:      PrintColor,
		Limit:      1,
		Offset:     0,
	}, q)
}

func TestNewFilterQuery_Defaults(t *testing.T) {
	q := NewFilterQuery(RawFilterQuery{Print: "sepia"})

	assert.Equal(t, PrintAny, q.Print)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Zero(t, q.Offset)
	assert.False(t, q.NeedsExpansion())
}

func TestNewFilterQuery_TruncatesSearch(t *testing.T) {
	q := NewFilterQuery(RawFilterQuery{Q: strings.Repeat("ж", MaxSearchLength+10)})

	assert.Equal(t, MaxSearchLength, len([]rune(q.Q)))
}

func TestPrintTypeLabel(t *testing.T) {
	assert.Equal(t, "Color", PrintColor.Label())
	assert.Equal(t, "B/W", PrintBW.Label())
	assert.Equal(t, "", PrintAny.Label())
}
