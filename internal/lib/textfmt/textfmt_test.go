package textfmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShorten(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{name: "shorter than limit", text: "abc", limit: 5, want: "abc"},
		{name: "exactly at limit", text: "abcde", limit: 5, want: "abcde"},
		{name: "over limit", text: "abcdefghij", limit: 5, want: "abcde..."},
		{name: "empty", text: "", limit: 5, want: ""},
		{name: "korean over limit", text: "서울시 강남구 대치동", limit: 5, want: "서울시 강..."},
		{name: "korean at limit", text: "코딩특강", limit: 4, want: "코딩특강"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Shorten(tt.text, tt.limit))
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{name: "monday", date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), want: "25/03/10 (월)"},
		{name: "sunday", date: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), want: "25/03/09 (일)"},
		{name: "saturday", date: time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC), want: "24/12/28 (토)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.date))
		})
	}
}
