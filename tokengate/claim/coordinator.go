package claim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/delonrp/tokengate/tokengate/storage"
	"github.com/delonrp/tokengate/tokengate/tokens"
	"golang.org/x/sync/semaphore"
)

// Source is one configured token file: an admin-facing alias pointing at a
// document in a data repository. Immutable for the process lifetime.
type Source struct {
	Alias string
	Repo  string
	Path  string
}

// Receipt is the outcome of a successful claim, handed back for delivery.
type Receipt struct {
	Token       string
	Role        string
	SourceAlias string
	Duration    time.Duration
	ExpiresAt   time.Time
}

// Status is a read-only view of one key's ledger record.
type Status struct {
	Claimed     bool
	Record      tokens.ClaimRecord
	Eligibility tokens.Eligibility
	NextClaim   time.Time
}

// ActiveToken is one live entry for the admin listing.
type ActiveToken struct {
	Key         string
	Token       string
	SourceAlias string
	ExpiresAt   time.Time
	Shared      bool
}

// Expiry describes one token the sweeper retired.
type Expiry struct {
	Key    string
	Token  string
	Shared bool
}

// Coordinator runs every operation that touches the ledger document or a
// token collection. A weight-1 semaphore serializes them: the store has no
// multi-file transaction, so the gate is what keeps the per-read version tags
// from racing each other. The gate is process-local only; running two bot
// instances against the same data repository is not supported.
type Coordinator struct {
	store      storage.Client
	policy     *tokens.RolePolicy
	sources    map[string]Source
	aliases    []string
	ledgerRepo string
	ledgerPath string

	gate    *semaphore.Weighted
	session SessionState

	now func() time.Time
}

// New builds a coordinator over the given store, role policy, and source
// table. The ledger lives at ledgerRepo/ledgerPath.
func New(store storage.Client, policy *tokens.RolePolicy, sources []Source, ledgerRepo, ledgerPath string) (*Coordinator, error) {
	if len(sources) == 0 {
		return nil, errors.New("at least one token source must be configured")
	}

	c := &Coordinator{
		store:      store,
		policy:     policy,
		sources:    make(map[string]Source, len(sources)),
		ledgerRepo: ledgerRepo,
		ledgerPath: ledgerPath,
		gate:       semaphore.NewWeighted(1),
		now:        time.Now,
	}
	for _, s := range sources {
		alias := strings.ToLower(s.Alias)
		if _, dup := c.sources[alias]; dup {
			return nil, fmt.Errorf("duplicate token source alias %q", s.Alias)
		}
		c.sources[alias] = s
		c.aliases = append(c.aliases, alias)
	}
	return c, nil
}

// Aliases returns the configured source aliases in configuration order.
func (c *Coordinator) Aliases() []string {
	return c.aliases
}

// Policy returns the role policy claims are resolved against.
func (c *Coordinator) Policy() *tokens.RolePolicy {
	return c.policy
}

// Sources returns the configured sources in configuration order.
func (c *Coordinator) Sources() []Source {
	out := make([]Source, 0, len(c.aliases))
	for _, alias := range c.aliases {
		out = append(out, c.sources[alias])
	}
	return out
}

func (c *Coordinator) resolveSource(alias string) (Source, error) {
	if alias == "" {
		alias = c.aliases[0]
	}
	s, ok := c.sources[strings.ToLower(alias)]
	if !ok {
		return Source{}, fmt.Errorf("%w: %q", ErrUnknownSource, alias)
	}
	return s, nil
}

// loadLedger reads and decodes the ledger document. A missing document is an
// empty ledger with a create tag; malformed content is a read failure here
// and is healed separately at startup by EnsureLedger.
func (c *Coordinator) loadLedger(ctx context.Context) (tokens.Ledger, string, error) {
	doc, err := c.store.Get(ctx, c.ledgerRepo, c.ledgerPath)
	if errors.Is(err, storage.ErrNotFound) {
		return tokens.Ledger{}, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	ledger, err := tokens.ParseLedger(doc.Content)
	if err != nil {
		return nil, "", err
	}
	return ledger, doc.SHA, nil
}

func (c *Coordinator) writeLedger(ctx context.Context, ledger tokens.Ledger, sha, message string) error {
	content, err := ledger.Encode()
	if err != nil {
		return err
	}
	_, err = c.store.Put(ctx, c.ledgerRepo, c.ledgerPath, content, sha, message)
	return err
}

// EnsureLedger validates the ledger document at startup. Unparseable content
// is replaced with an empty mapping: the previous state is discarded rather
// than blocking every future claim on a corrupt document.
func (c *Coordinator) EnsureLedger(ctx context.Context) error {
	doc, err := c.store.Get(ctx, c.ledgerRepo, c.ledgerPath)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := tokens.ParseLedger(doc.Content); err == nil {
		return nil
	}

	slog.Warn("Claim ledger is corrupted, reinitializing to an empty mapping",
		slog.String("type", "store"),
		slog.String("path", c.ledgerPath))

	empty, _ := tokens.Ledger{}.Encode()
	_, err = c.store.Put(ctx, c.ledgerRepo, c.ledgerPath, empty, doc.SHA, "Bot: Reinitialize corrupted claim ledger")
	return err
}

// OpenSession opens the claim window against the given source alias (the
// first configured source when empty).
func (c *Coordinator) OpenSession(ctx context.Context, alias, openedBy string) (Source, error) {
	src, err := c.resolveSource(alias)
	if err != nil {
		return Source{}, err
	}
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return Source{}, err
	}
	defer c.gate.Release(1)

	c.session = SessionState{
		Open:        true,
		SourceAlias: strings.ToLower(src.Alias),
		OpenedBy:    openedBy,
		OpenedAt:    c.now(),
	}
	slog.Info("Claim session opened",
		slog.String("source", src.Alias),
		slog.String("opened_by", openedBy))
	return src, nil
}

// CloseSession closes the claim window.
func (c *Coordinator) CloseSession(ctx context.Context) error {
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.gate.Release(1)

	c.session = SessionState{}
	slog.Info("Claim session closed")
	return nil
}

// Session returns a snapshot of the session state.
func (c *Coordinator) Session(ctx context.Context) (SessionState, error) {
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return SessionState{}, err
	}
	defer c.gate.Release(1)
	return c.session, nil
}

// AttemptClaim runs one claim transaction for the given key and role
// memberships. The token file is written before the ledger; if the ledger
// write then fails, the token is removed again and the claim reports failure
// even when that compensating removal itself fails. The token is only valid
// once both writes have succeeded.
func (c *Coordinator) AttemptClaim(ctx context.Context, key string, roleNames []string) (*Receipt, error) {
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.gate.Release(1)

	if !c.session.Open {
		return nil, ErrSessionClosed
	}

	ledger, ledgerSHA, err := c.loadLedger(ctx)
	if err != nil {
		return nil, err
	}

	now := c.now()
	switch elig := tokens.Evaluate(ledger[key], now); elig.State {
	case tokens.InCooldown:
		return nil, &CooldownError{Until: elig.Until}
	case tokens.TokenActive:
		return nil, &TokenActiveError{Until: elig.Until}
	}

	role, ok := c.policy.Resolve(roleNames)
	if !ok {
		return nil, ErrNoEligibleRole
	}
	duration, ok := c.policy.Duration(role)
	if !ok {
		return nil, fmt.Errorf("no duration configured for role %q", role)
	}

	token, err := tokens.Mint(role, now)
	if err != nil {
		return nil, err
	}

	src := c.sources[c.session.SourceAlias]

	tokenDoc, err := c.getOrEmpty(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenWriteFailed, err)
	}
	newContent := tokens.AppendToken(tokenDoc.Content, token)
	if _, err := c.store.Put(ctx, src.Repo, src.Path, newContent, tokenDoc.SHA,
		fmt.Sprintf("Bot: Add token for %s", key)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenWriteFailed, err)
	}

	ledger[key] = tokens.RecordClaim(token, src.Alias, now, duration)
	if err := c.writeLedger(ctx, ledger, ledgerSHA, fmt.Sprintf("Bot: Update claim for %s", key)); err != nil {
		rolledBack := c.rollbackToken(ctx, src, token)
		return nil, &ClaimFailedError{RolledBack: rolledBack, Err: err}
	}

	slog.Info("Token claimed",
		slog.String("user_id", key),
		slog.String("role", role),
		slog.String("source", src.Alias),
		slog.String("token", token))

	return &Receipt{
		Token:       token,
		Role:        role,
		SourceAlias: src.Alias,
		Duration:    duration,
		ExpiresAt:   now.Add(duration),
	}, nil
}

// rollbackToken removes one occurrence of the token from its source file
// after a ledger-write failure. The state may have moved since the append,
// so the document is re-read for a fresh version tag. A failed rollback
// leaves an orphan token string behind, which is logged and tolerated; the
// claim itself already failed closed.
func (c *Coordinator) rollbackToken(ctx context.Context, src Source, token string) bool {
	doc, err := c.getOrEmpty(ctx, src)
	if err == nil {
		if content, removed := tokens.RemoveTokenOnce(doc.Content, token); removed {
			_, err = c.store.Put(ctx, src.Repo, src.Path, content, doc.SHA,
				fmt.Sprintf("Bot: Roll back token %s", token))
		}
	}
	if err != nil {
		slog.Error("Token rollback failed, orphan token left in source file",
			slog.String("source", src.Alias),
			slog.String("token", token),
			slog.Any("error", err))
		return false
	}
	slog.Warn("Claim rolled back after ledger write failure",
		slog.String("source", src.Alias),
		slog.String("token", token))
	return true
}

func (c *Coordinator) getOrEmpty(ctx context.Context, src Source) (*storage.Document, error) {
	doc, err := c.store.Get(ctx, src.Repo, src.Path)
	if errors.Is(err, storage.ErrNotFound) {
		return &storage.Document{}, nil
	}
	return doc, err
}

// CheckStatus reads one key's record. It takes no gate: a single document
// read is atomic at the store, and status checks never write.
func (c *Coordinator) CheckStatus(ctx context.Context, key string) (*Status, error) {
	ledger, _, err := c.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := ledger[key]
	if !ok {
		return &Status{}, nil
	}

	st := &Status{
		Claimed:     true,
		Record:      *rec,
		Eligibility: tokens.Evaluate(rec, c.now()),
	}
	if rec.LastClaim != nil {
		st.NextClaim = rec.LastClaim.Add(tokens.ClaimCooldown)
	}
	return st, nil
}

// AddToken appends an admin-supplied token to a source file. With a duration
// it is also recorded in the ledger under a synthetic shared key so the
// sweeper retires it; without one it lives in the file until removed by hand.
func (c *Coordinator) AddToken(ctx context.Context, alias, token string, duration time.Duration) error {
	src, err := c.resolveSource(alias)
	if err != nil {
		return err
	}
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.gate.Release(1)

	doc, err := c.getOrEmpty(ctx, src)
	if err != nil {
		return err
	}
	if tokens.ContainsToken(doc.Content, token) {
		return ErrDuplicateToken
	}
	if _, err := c.store.Put(ctx, src.Repo, src.Path, tokens.AppendToken(doc.Content, token), doc.SHA,
		fmt.Sprintf("Admin: Add custom token %s", token)); err != nil {
		return err
	}

	if duration <= 0 {
		return nil
	}

	ledger, sha, err := c.loadLedger(ctx)
	if err != nil {
		return err
	}
	now := c.now()
	rec := tokens.RecordClaim(token, src.Alias, now, duration)
	rec.Shared = true
	ledger["shared:"+token] = rec
	return c.writeLedger(ctx, ledger, sha, fmt.Sprintf("Admin: Record shared token %s", token))
}

// RemoveToken force-removes every occurrence of a token from a source file.
func (c *Coordinator) RemoveToken(ctx context.Context, alias, token string) error {
	src, err := c.resolveSource(alias)
	if err != nil {
		return err
	}
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.gate.Release(1)

	doc, err := c.getOrEmpty(ctx, src)
	if err != nil {
		return err
	}
	content, removed := tokens.RemoveToken(doc.Content, token)
	if !removed {
		return ErrTokenNotFound
	}
	_, err = c.store.Put(ctx, src.Repo, src.Path, content, doc.SHA,
		fmt.Sprintf("Admin: Force remove token %s", token))
	return err
}

// ResetUser deletes a key's ledger record entirely, cooldown included, and
// strips its current token from its source file. Returns the removed token,
// if the record held one.
func (c *Coordinator) ResetUser(ctx context.Context, key string) (string, error) {
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.gate.Release(1)

	ledger, sha, err := c.loadLedger(ctx)
	if err != nil {
		return "", err
	}
	rec, ok := ledger[key]
	if !ok {
		return "", ErrNoRecord
	}

	delete(ledger, key)
	if err := c.writeLedger(ctx, ledger, sha, fmt.Sprintf("Admin: Reset cooldown for %s", key)); err != nil {
		return "", err
	}

	if rec.CurrentToken == "" {
		return "", nil
	}

	src, err := c.resolveSource(rec.SourceAlias)
	if err != nil {
		slog.Warn("Reset record references an unconfigured source, token left in place",
			slog.String("user_id", key),
			slog.String("source", rec.SourceAlias))
		return rec.CurrentToken, nil
	}
	doc, err := c.getOrEmpty(ctx, src)
	if err != nil {
		return rec.CurrentToken, err
	}
	if content, removed := tokens.RemoveToken(doc.Content, rec.CurrentToken); removed {
		if _, err := c.store.Put(ctx, src.Repo, src.Path, content, doc.SHA,
			fmt.Sprintf("Admin: Remove token for cooldown reset of %s", key)); err != nil {
			return rec.CurrentToken, err
		}
	}
	return rec.CurrentToken, nil
}

// ListActive returns every unexpired token in the ledger, stable-sorted by
// expiry. Like CheckStatus this is an ungated single-document read.
func (c *Coordinator) ListActive(ctx context.Context) ([]ActiveToken, error) {
	ledger, _, err := c.loadLedger(ctx)
	if err != nil {
		return nil, err
	}

	now := c.now()
	var out []ActiveToken
	for key, rec := range ledger {
		if rec.CurrentToken == "" || rec.TokenExpiry == nil || !now.Before(*rec.TokenExpiry) {
			continue
		}
		out = append(out, ActiveToken{
			Key:         key,
			Token:       rec.CurrentToken,
			SourceAlias: rec.SourceAlias,
			ExpiresAt:   *rec.TokenExpiry,
			Shared:      rec.Shared,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out, nil
}

// ReadRaw returns the raw text of a source's token file, empty when the
// document does not exist yet.
func (c *Coordinator) ReadRaw(ctx context.Context, alias string) (string, error) {
	src, err := c.resolveSource(alias)
	if err != nil {
		return "", err
	}
	doc, err := c.getOrEmpty(ctx, src)
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

// ExpireDue retires every token whose expiry has passed: token fields are
// cleared from their records (the records themselves stay for cooldown
// bookkeeping), each touched collection is rewritten once, and the ledger is
// written back only when something changed. Any store failure aborts the
// whole cycle without persisting partial ledger state; the next tick retries.
func (c *Coordinator) ExpireDue(ctx context.Context) ([]Expiry, error) {
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.gate.Release(1)

	ledger, ledgerSHA, err := c.loadLedger(ctx)
	if err != nil {
		return nil, err
	}

	now := c.now()
	var expired []Expiry
	byAlias := make(map[string]map[string]struct{})
	for key, rec := range ledger {
		if rec.TokenExpiry == nil || now.Before(*rec.TokenExpiry) {
			continue
		}
		token := rec.CurrentToken
		if token == "" {
			continue
		}
		rec.ClearToken()
		alias := strings.ToLower(rec.SourceAlias)
		if byAlias[alias] == nil {
			byAlias[alias] = make(map[string]struct{})
		}
		byAlias[alias][token] = struct{}{}
		expired = append(expired, Expiry{Key: key, Token: token, Shared: rec.Shared})
	}
	if len(expired) == 0 {
		return nil, nil
	}

	for alias, remove := range byAlias {
		src, err := c.resolveSource(alias)
		if err != nil {
			slog.Warn("Expired token references an unconfigured source",
				slog.String("source", alias))
			continue
		}
		doc, err := c.getOrEmpty(ctx, src)
		if err != nil {
			return nil, err
		}
		content, changed := tokens.RemoveTokens(doc.Content, remove)
		if !changed {
			continue
		}
		if _, err := c.store.Put(ctx, src.Repo, src.Path, content, doc.SHA,
			"Bot: Remove expired tokens"); err != nil {
			return nil, err
		}
	}

	if err := c.writeLedger(ctx, ledger, ledgerSHA, "Bot: Update claim data after expiry"); err != nil {
		return nil, err
	}
	return expired, nil
}
