package tokens

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    time.Duration
		wantErr bool
	}{
		{name: "days", code: "30d", want: 30 * 24 * time.Hour},
		{name: "hours", code: "12h", want: 12 * time.Hour},
		{name: "minutes", code: "45m", want: 45 * time.Minute},
		{name: "seconds", code: "90s", want: 90 * time.Second},
		{name: "uppercase unit", code: "7D", want: 7 * 24 * time.Hour},
		{name: "zero", code: "0d", want: 0},
		{name: "empty", code: "", wantErr: true},
		{name: "unit only", code: "d", wantErr: true},
		{name: "no unit", code: "30", wantErr: true},
		{name: "unknown unit", code: "30x", wantErr: true},
		{name: "fractional", code: "1.5h", wantErr: true},
		{name: "negative", code: "-5d", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * 24 * time.Hour, "30 days"},
		{24 * time.Hour, "1 day"},
		{12 * time.Hour, "12 hours"},
		{time.Hour, "1 hour"},
		{45 * time.Minute, "45 minutes"},
		{90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
