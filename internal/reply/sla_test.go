package reply_test

import (
	"testing"
	"time"

	"github.com/gabrielbagon/email-classifier-api/internal/reply"
)

func TestAddBusinessHours(t *testing.T) {
	// 2026-01-02 is a Friday.
	friday := time.Date(2026, time.January, 2, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name  string
		start time.Time
		hours int
		want  time.Time
	}{
		{
			name:  "same day",
			start: friday,
			hours: 4,
			want:  time.Date(2026, time.January, 2, 14, 0, 0, 0, time.UTC),
		},
		{
			name:  "friday night resumes on monday",
			start: time.Date(2026, time.January, 2, 22, 0, 0, 0, time.UTC),
			hours: 4,
			want:  time.Date(2026, time.January, 5, 2, 0, 0, 0, time.UTC),
		},
		{
			name:  "saturday start counts nothing until monday",
			start: time.Date(2026, time.January, 3, 9, 0, 0, 0, time.UTC),
			hours: 2,
			want:  time.Date(2026, time.January, 5, 1, 0, 0, 0, time.UTC),
		},
		{
			name:  "zero hours is a no-op",
			start: friday,
			hours: 0,
			want:  friday,
		},
		{
			name:  "negative hours is a no-op",
			start: friday,
			hours: -3,
			want:  friday,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := reply.AddBusinessHours(tc.start, tc.hours)
			if !got.Equal(tc.want) {
				t.Errorf("AddBusinessHours(%v, %d) = %v, want %v", tc.start, tc.hours, got, tc.want)
			}
		})
	}
}

func TestFormatSLA_PerLanguage(t *testing.T) {
	// Monday 2026-01-05 09:00; +24 business hours lands Tuesday 09:00.
	monday := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		lang reply.Language
		want string
	}{
		{reply.LangPT, "06/01/2026 09:00"},
		{reply.LangEN, "1/6/2026 9:00 AM"},
		{reply.LangES, "6/1/2026 09:00"},
		{reply.Language("de"), "2026-01-06 09:00"},
	}

	for _, tc := range testCases {
		if got := reply.FormatSLA(monday, 24, tc.lang); got != tc.want {
			t.Errorf("FormatSLA(%s) = %q, want %q", tc.lang, got, tc.want)
		}
	}
}
