// Package textfmt renders display projections of posting fields: truncated
// text for list views and the Korean weekday date label.
package textfmt

import "time"

var koreanWeekdays = [7]string{"일", "월", "화", "수", "목", "금", "토"}

// Shorten returns text unchanged when it fits in limit runes, otherwise the
// first limit runes followed by "...". The limit counts runes, not bytes, so
// Korean text truncates at character boundaries.
func Shorten(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// FormatDate renders a date as "YY/MM/DD (요일)", e.g. "24/03/01 (금)".
func FormatDate(d time.Time) string {
	return d.Format("06/01/02") + " (" + koreanWeekdays[int(d.Weekday())] + ")"
}
