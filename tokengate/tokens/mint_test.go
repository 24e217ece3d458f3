package tokens

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestMint(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		role    string
		pattern string
	}{
		{role: "vip", pattern: `^VIP-[A-Z0-9]{4}-20250314$`},
		{role: "inner circle", pattern: `^INNERCIRCLE-[A-Z0-9]{4}-20250314$`},
		{role: "beginner", pattern: `^BEGINNER-[A-Z0-9]{4}-20250314$`},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			token, err := Mint(tt.role, now)
			if err != nil {
				t.Fatalf("Mint(%q) error = %v", tt.role, err)
			}
			if !regexp.MustCompile(tt.pattern).MatchString(token) {
				t.Errorf("Mint(%q) = %q, want match for %q", tt.role, token, tt.pattern)
			}
		})
	}
}

func TestMintRandomSegmentStaysInAlphabet(t *testing.T) {
	// Enough draws to hit the redraw path for high random bytes.
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^VIP-[A-Z0-9]{4}-20250314$`)

	for i := 0; i < 512; i++ {
		token, err := Mint("vip", now)
		if err != nil {
			t.Fatalf("Mint() error = %v", err)
		}
		if !pattern.MatchString(token) {
			t.Fatalf("Mint() = %q, want match for %q", token, pattern)
		}
	}
}

func TestMintUsesUTCDate(t *testing.T) {
	// 09:30 in UTC+10 is 23:30 UTC the previous day.
	loc := time.FixedZone("UTC+10", 10*3600)
	now := time.Date(2025, 3, 15, 9, 30, 0, 0, loc)

	token, err := Mint("vip", now)
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}
	if !strings.HasSuffix(token, "-20250314") {
		t.Errorf("Mint() = %q, want UTC date suffix -20250314", token)
	}
}
