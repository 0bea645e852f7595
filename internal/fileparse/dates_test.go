package fileparse

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"brazilian slashes", "25/12/2024", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"iso", "2024-12-25", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"brazilian dashes", "05-01-2025", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"day month order", "02/03/2024", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"rfc3339 timestamp", "2024-06-15T10:30:00Z", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"space separated timestamp", "2024-06-15 10:30:00", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"padded input", "  01/02/2024  ", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"garbage", "not-a-date"},
		{"day out of range", "32/01/2024"},
		{"month out of range", "15/13/2024"},
		{"calendar rollover", "31/02/2024"},
		{"iso rollover", "2024-02-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDate(tt.input); err == nil {
				t.Errorf("ParseDate(%q) expected error, got nil", tt.input)
			}
		})
	}
}
