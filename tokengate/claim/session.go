package claim

import "time"

// SessionState is the admin-controlled claim window. It lives on the
// coordinator and is read and mutated only while the coordinator's gate is
// held, so a claim attempt always sees a consistent open/closed decision.
type SessionState struct {
	Open        bool
	SourceAlias string
	OpenedBy    string
	OpenedAt    time.Time
}
