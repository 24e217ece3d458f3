package utils

import (
	"testing"
	"time"
)

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "days and hours", d: 3*24*time.Hour + 4*time.Hour, want: "3 days 4 hours"},
		{name: "hours only", d: 5 * time.Hour, want: "0 days 5 hours"},
		{name: "under an hour", d: 42 * time.Minute, want: "42 minutes"},
		{name: "zero", d: 0, want: "0 minutes"},
		{name: "negative clamps to zero", d: -time.Hour, want: "0 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRemaining(tt.d); got != tt.want {
				t.Errorf("FormatRemaining(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
