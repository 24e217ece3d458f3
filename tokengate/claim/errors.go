package claim

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSessionClosed aborts a claim attempt while no claim session is open.
	ErrSessionClosed = errors.New("claim session is closed")
	// ErrNoEligibleRole aborts a claim attempt when the caller holds none of
	// the claim-eligible roles.
	ErrNoEligibleRole = errors.New("no claim-eligible role")
	// ErrTokenWriteFailed aborts a claim before any ledger mutation: the
	// token never made it into its source file.
	ErrTokenWriteFailed = errors.New("failed to write token to its source file")
	// ErrDuplicateToken rejects an admin add of a token already present.
	ErrDuplicateToken = errors.New("token already exists")
	// ErrTokenNotFound rejects an admin removal of an absent token.
	ErrTokenNotFound = errors.New("token not found")
	// ErrNoRecord means the requested key never claimed.
	ErrNoRecord = errors.New("no claim record for this user")
	// ErrUnknownSource means no configured token source matches the alias.
	ErrUnknownSource = errors.New("unknown token source")
)

// CooldownError blocks a claim while the 7-day cooldown runs.
type CooldownError struct {
	Until time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("claim cooldown active until %s", e.Until.UTC().Format(time.RFC1123))
}

// TokenActiveError blocks a claim while the caller's previous token is live.
type TokenActiveError struct {
	Until time.Time
}

func (e *TokenActiveError) Error() string {
	return fmt.Sprintf("current token still active until %s", e.Until.UTC().Format(time.RFC1123))
}

// ClaimFailedError reports a ledger-write failure after the token was already
// appended to its source file. RolledBack tells whether the compensating
// removal succeeded; either way the minted token is not valid.
type ClaimFailedError struct {
	RolledBack bool
	Err        error
}

func (e *ClaimFailedError) Error() string {
	if e.RolledBack {
		return fmt.Sprintf("claim failed, token rolled back: %v", e.Err)
	}
	return fmt.Sprintf("claim failed, token rollback also failed: %v", e.Err)
}

func (e *ClaimFailedError) Unwrap() error {
	return e.Err
}
