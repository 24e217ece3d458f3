package handlers

import "strings"

// TierRoles names the roles the auto-role heuristic may grant, plus the
// message keywords that select a single tier.
type TierRoles struct {
	Subscriber        string
	Follower          string
	Verified          string
	SubscriberKeyword string
	FollowerKeyword   string
}

// DecideGrants picks the roles to grant for one role-request message. The
// heuristic, in order: two or more attachments earn both tiers; otherwise a
// platform keyword in the text earns its matching tier; otherwise the first
// tier the author doesn't hold yet (subscriber preferred). Whenever the
// author would end up with both tiers, the verified role is granted on top.
// Roles already held are never re-granted; held names come from the guild
// and tier names from config, so the comparison is case-insensitive.
func DecideGrants(attachmentCount int, content string, held map[string]bool, tiers TierRoles) []string {
	grants := make(map[string]bool)
	content = strings.ToLower(content)

	heldLower := make(map[string]bool, len(held))
	for name, ok := range held {
		if ok {
			heldLower[strings.ToLower(name)] = true
		}
	}
	holds := func(role string) bool {
		return heldLower[strings.ToLower(role)]
	}

	if attachmentCount >= 2 {
		grants[tiers.Subscriber] = true
		grants[tiers.Follower] = true
	} else {
		hasSubKeyword := tiers.SubscriberKeyword != "" && strings.Contains(content, tiers.SubscriberKeyword)
		hasFolKeyword := tiers.FollowerKeyword != "" && strings.Contains(content, tiers.FollowerKeyword)
		switch {
		case hasSubKeyword || hasFolKeyword:
			if hasSubKeyword {
				grants[tiers.Subscriber] = true
			}
			if hasFolKeyword {
				grants[tiers.Follower] = true
			}
		case !holds(tiers.Subscriber):
			grants[tiers.Subscriber] = true
		case !holds(tiers.Follower):
			grants[tiers.Follower] = true
		}
	}

	hasSub := holds(tiers.Subscriber) || grants[tiers.Subscriber]
	hasFol := holds(tiers.Follower) || grants[tiers.Follower]
	if hasSub && hasFol {
		grants[tiers.Verified] = true
	}

	var out []string
	for _, role := range []string{tiers.Subscriber, tiers.Follower, tiers.Verified} {
		if grants[role] && !holds(role) {
			out = append(out, role)
		}
	}
	return out
}
