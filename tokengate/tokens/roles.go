package tokens

import (
	"fmt"
	"strings"
	"time"
)

// RolePolicy maps claim-eligible role names to token durations and fixes the
// priority order used when a member holds several of them. Role names are
// compared lowercase; normalization happens once at construction.
type RolePolicy struct {
	durations map[string]time.Duration
	priority  []string
}

// NewRolePolicy builds a policy from the configured duration codes and
// priority list. Every priority entry must have a duration, and every
// duration code must parse.
func NewRolePolicy(durations map[string]string, priority []string) (*RolePolicy, error) {
	p := &RolePolicy{
		durations: make(map[string]time.Duration, len(durations)),
		priority:  make([]string, 0, len(priority)),
	}
	for role, code := range durations {
		d, err := ParseDuration(code)
		if err != nil {
			return nil, fmt.Errorf("role %q: %w", role, err)
		}
		p.durations[strings.ToLower(role)] = d
	}
	for _, role := range priority {
		role = strings.ToLower(role)
		if _, ok := p.durations[role]; !ok {
			return nil, fmt.Errorf("role %q listed in priority but has no duration", role)
		}
		p.priority = append(p.priority, role)
	}
	return p, nil
}

// Resolve picks the highest-priority claim-eligible role out of a member's
// role names. Returns false when none qualifies.
func (p *RolePolicy) Resolve(roleNames []string) (string, bool) {
	held := make(map[string]struct{}, len(roleNames))
	for _, name := range roleNames {
		held[strings.ToLower(name)] = struct{}{}
	}
	for _, role := range p.priority {
		if _, ok := held[role]; ok {
			return role, true
		}
	}
	return "", false
}

// Duration returns the token duration granted for a resolved role.
func (p *RolePolicy) Duration(role string) (time.Duration, bool) {
	d, ok := p.durations[strings.ToLower(role)]
	return d, ok
}

// Priority returns the configured priority order, highest first.
func (p *RolePolicy) Priority() []string {
	return p.priority
}
