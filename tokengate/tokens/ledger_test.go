package tokens

import (
	"strings"
	"testing"
	"time"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestEvaluate(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		rec       *ClaimRecord
		wantState ClaimState
		wantUntil time.Time
	}{
		{
			name:      "never claimed",
			rec:       nil,
			wantState: Eligible,
		},
		{
			name: "in cooldown",
			rec: &ClaimRecord{
				LastClaim: timePtr(now.Add(-24 * time.Hour)),
			},
			wantState: InCooldown,
			wantUntil: now.Add(6 * 24 * time.Hour),
		},
		{
			name: "cooldown checked before token activity",
			rec: &ClaimRecord{
				LastClaim:    timePtr(now.Add(-time.Hour)),
				CurrentToken: "VIP-AAAA-20250314",
				TokenExpiry:  timePtr(now.Add(29 * 24 * time.Hour)),
			},
			wantState: InCooldown,
			wantUntil: now.Add(7*24*time.Hour - time.Hour),
		},
		{
			name: "token active after cooldown lapsed",
			rec: &ClaimRecord{
				LastClaim:    timePtr(now.Add(-10 * 24 * time.Hour)),
				CurrentToken: "VIP-AAAA-20250304",
				TokenExpiry:  timePtr(now.Add(20 * 24 * time.Hour)),
			},
			wantState: TokenActive,
			wantUntil: now.Add(20 * 24 * time.Hour),
		},
		{
			name: "token expired",
			rec: &ClaimRecord{
				LastClaim:    timePtr(now.Add(-10 * 24 * time.Hour)),
				CurrentToken: "BEGINNER-AAAA-20250304",
				TokenExpiry:  timePtr(now.Add(-7 * 24 * time.Hour)),
			},
			wantState: Expired,
			wantUntil: now.Add(-7 * 24 * time.Hour),
		},
		{
			name: "legacy record with token but no cooldown timestamp",
			rec: &ClaimRecord{
				CurrentToken: "VIP-AAAA-20250301",
				TokenExpiry:  timePtr(now.Add(time.Hour)),
			},
			wantState: TokenActive,
			wantUntil: now.Add(time.Hour),
		},
		{
			name: "legacy record with cooldown lapsed and no token",
			rec: &ClaimRecord{
				LastClaim: timePtr(now.Add(-30 * 24 * time.Hour)),
			},
			wantState: Eligible,
		},
		{
			name: "legacy record with token but no expiry",
			rec: &ClaimRecord{
				LastClaim:    timePtr(now.Add(-30 * 24 * time.Hour)),
				CurrentToken: "VIP-AAAA-20250201",
			},
			wantState: Eligible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.rec, now)
			if got.State != tt.wantState {
				t.Errorf("Evaluate() state = %v, want %v", got.State, tt.wantState)
			}
			if !got.Until.Equal(tt.wantUntil) {
				t.Errorf("Evaluate() until = %v, want %v", got.Until, tt.wantUntil)
			}
		})
	}
}

func TestEvaluateIsStable(t *testing.T) {
	// Re-evaluating the same record at the same instant must yield the same
	// blocking deadline, so a user hammering the claim button sees one
	// consistent answer.
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	rec := RecordClaim("VIP-AAAA-20250314", "main", now, 30*24*time.Hour)

	later := now.Add(time.Minute)
	first := Evaluate(rec, later)
	second := Evaluate(rec, later)
	if first != second {
		t.Errorf("Evaluate() not stable: %+v vs %+v", first, second)
	}
	if first.State != InCooldown {
		t.Errorf("Evaluate() state = %v, want InCooldown", first.State)
	}
}

func TestRecordClaim(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	rec := RecordClaim("VIP-AAAA-20250314", "main", now, 30*24*time.Hour)

	if rec.CurrentToken != "VIP-AAAA-20250314" {
		t.Errorf("CurrentToken = %q", rec.CurrentToken)
	}
	if rec.SourceAlias != "main" {
		t.Errorf("SourceAlias = %q", rec.SourceAlias)
	}
	if !rec.LastClaim.Equal(now) {
		t.Errorf("LastClaim = %v, want %v", rec.LastClaim, now)
	}
	if want := now.Add(30 * 24 * time.Hour); !rec.TokenExpiry.Equal(want) {
		t.Errorf("TokenExpiry = %v, want %v", rec.TokenExpiry, want)
	}
}

func TestClearToken(t *testing.T) {
	now := time.Now()
	rec := RecordClaim("VIP-AAAA-20250314", "main", now, time.Hour)

	if !rec.ClearToken() {
		t.Error("ClearToken() = false on a record holding a token")
	}
	if rec.CurrentToken != "" || rec.TokenExpiry != nil {
		t.Errorf("token fields not cleared: %+v", rec)
	}
	if rec.LastClaim == nil {
		t.Error("ClearToken() wiped the cooldown timestamp")
	}
	if rec.ClearToken() {
		t.Error("ClearToken() = true on an already-cleared record")
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	ledger := Ledger{
		"111": RecordClaim("VIP-AAAA-20250314", "main", now, 30*24*time.Hour),
		"222": {LastClaim: timePtr(now.Add(-48 * time.Hour))},
	}

	encoded, err := ledger.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(encoded, "last_claim_timestamp") {
		t.Errorf("Encode() missing legacy field name:\n%s", encoded)
	}

	decoded, err := ParseLedger(encoded)
	if err != nil {
		t.Fatalf("ParseLedger() error = %v", err)
	}
	if decoded["111"].CurrentToken != "VIP-AAAA-20250314" {
		t.Errorf("round trip lost token: %+v", decoded["111"])
	}
	if decoded["222"].CurrentToken != "" {
		t.Errorf("round trip invented token: %+v", decoded["222"])
	}
}

func TestParseLedger(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantLen int
		wantErr bool
	}{
		{name: "empty content", content: "", wantLen: 0},
		{name: "empty object", content: "{}", wantLen: 0},
		{name: "null", content: "null", wantLen: 0},
		{name: "unknown fields tolerated", content: `{"111": {"current_token": "X", "legacy_field": 42}}`, wantLen: 1},
		{name: "malformed", content: "{not json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLedger(tt.content)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLedger() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && len(got) != tt.wantLen {
				t.Errorf("ParseLedger() len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}
