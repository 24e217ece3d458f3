package tokens

import (
	"encoding/json"
	"fmt"
	"time"
)

// ClaimCooldown is the window after a successful claim during which a new
// claim is refused, regardless of role or token state.
const ClaimCooldown = 7 * 24 * time.Hour

// ClaimRecord is one entry in the claim ledger, keyed by user ID (or a
// synthetic key for admin-issued shared tokens). All fields are optional:
// legacy records may carry any subset, and a record holding a current token
// always holds its expiry as well.
type ClaimRecord struct {
	LastClaim    *time.Time `json:"last_claim_timestamp,omitempty"`
	CurrentToken string     `json:"current_token,omitempty"`
	TokenExpiry  *time.Time `json:"token_expiry_timestamp,omitempty"`
	SourceAlias  string     `json:"source_alias,omitempty"`
	Shared       bool       `json:"is_shared,omitempty"`
}

// Ledger maps claim keys to their records. It round-trips the claims.json
// document stored in the data repository.
type Ledger map[string]*ClaimRecord

// ParseLedger decodes a ledger document. Empty content decodes to an empty
// ledger.
func ParseLedger(content string) (Ledger, error) {
	if content == "" {
		return Ledger{}, nil
	}
	var l Ledger
	if err := json.Unmarshal([]byte(content), &l); err != nil {
		return nil, fmt.Errorf("failed to parse claim ledger: %w", err)
	}
	if l == nil {
		l = Ledger{}
	}
	return l, nil
}

// Encode serializes the ledger with indentation, matching the layout the
// document had under the previous bot so diffs in the data repo stay small.
func (l Ledger) Encode() (string, error) {
	data, err := json.MarshalIndent(l, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode claim ledger: %w", err)
	}
	return string(data), nil
}

// ClaimState classifies a record against the current instant.
type ClaimState int

const (
	// Eligible means no record, or a record with no live token and no
	// running cooldown.
	Eligible ClaimState = iota
	// InCooldown means the last claim was under ClaimCooldown ago.
	InCooldown
	// TokenActive means the record holds a token that has not expired yet.
	TokenActive
	// Expired means the record holds token fields whose expiry has passed.
	// Treated as eligible by the coordinator; the sweeper clears it.
	Expired
)

// Eligibility is the outcome of evaluating a ClaimRecord, with the instant
// the blocking condition lifts (cooldown end or token expiry) when relevant.
type Eligibility struct {
	State ClaimState
	Until time.Time
}

// Evaluate computes claim eligibility for a record at the given instant.
// A nil record means the key never claimed. Cooldown is checked before token
// activity; a legacy record holding a token but no last-claim timestamp is
// treated as not in cooldown.
func Evaluate(rec *ClaimRecord, now time.Time) Eligibility {
	if rec == nil {
		return Eligibility{State: Eligible}
	}

	if rec.LastClaim != nil {
		until := rec.LastClaim.Add(ClaimCooldown)
		if now.Before(until) {
			return Eligibility{State: InCooldown, Until: until}
		}
	}

	if rec.CurrentToken != "" && rec.TokenExpiry != nil {
		if now.Before(*rec.TokenExpiry) {
			return Eligibility{State: TokenActive, Until: *rec.TokenExpiry}
		}
		return Eligibility{State: Expired, Until: *rec.TokenExpiry}
	}

	return Eligibility{State: Eligible}
}

// RecordClaim returns the record for a fresh successful claim.
func RecordClaim(token string, source string, now time.Time, duration time.Duration) *ClaimRecord {
	expiry := now.Add(duration)
	return &ClaimRecord{
		LastClaim:    &now,
		CurrentToken: token,
		TokenExpiry:  &expiry,
		SourceAlias:  source,
	}
}

// ClearToken strips the token fields from a record, leaving the cooldown
// bookkeeping intact. Reports whether anything changed.
func (r *ClaimRecord) ClearToken() bool {
	if r.CurrentToken == "" && r.TokenExpiry == nil {
		return false
	}
	r.CurrentToken = ""
	r.TokenExpiry = nil
	return true
}
