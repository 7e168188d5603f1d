package policy

import "strings"

// Record is the minimal surface a domain entity exposes to the policy layer.
// Entities return "" or nil for relations they do not have.
type Record interface {
	OwnerID() string
	CreatorID() string
	ParticipantIDs() []string
}

// CanView reports whether the actor may see the record at all. Privileged
// actors see everything; everyone else must own it, have created it, or be a
// participant.
func CanView(actor Actor, rec Record) bool {
	if actor.Privileged() {
		return true
	}
	if actor.ID == "" {
		return false
	}
	if rec.OwnerID() == actor.ID || rec.CreatorID() == actor.ID {
		return true
	}
	for _, p := range rec.ParticipantIDs() {
		if p == actor.ID {
			return true
		}
	}
	return false
}

// Visible filters a result set down to what the actor may see. The output is
// never nil, so an empty cut serializes as [] rather than null.
func Visible[T Record](actor Actor, records []T) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if CanView(actor, rec) {
			out = append(out, rec)
		}
	}
	return out
}

// MatchesQuery reports whether any field contains the query, case-insensitive.
// A blank query matches everything.
func MatchesQuery(query string, fields ...string) bool {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}
