// Package confirm tracks outstanding confirmations: liveness codes sent to
// on-duty users and the end/abort windows of missions.
package confirm

import (
	"sort"
	"sync"
	"time"
)

// Purpose separates independent confirmation flows for the same subject.
type Purpose string

const (
	PurposeDuty  Purpose = "duty"
	PurposeEnd   Purpose = "end"
	PurposeAbort Purpose = "abort"
)

// Outcome is the result of answering a confirmation.
type Outcome int

const (
	// OutcomeNotNeeded means nothing was outstanding for the subject.
	OutcomeNotNeeded Outcome = iota
	// OutcomeConfirmed means the code matched and the entry was cleared.
	OutcomeConfirmed
	// OutcomeInvalidCode means an entry exists but the code did not match.
	OutcomeInvalidCode
	// OutcomeExpired means the entry's deadline passed before the answer.
	OutcomeExpired
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeInvalidCode:
		return "invalid code"
	case OutcomeExpired:
		return "expired"
	default:
		return "no confirmation needed"
	}
}

// Pending is one outstanding confirmation.
type Pending struct {
	Subject  string
	Purpose  Purpose
	Code     string
	Deadline time.Time
}

type key struct {
	subject string
	purpose Purpose
}

// Registry holds pending confirmations. Safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	pending map[key]Pending
	now     func() time.Time
}

// NewRegistry creates an empty registry. A nil clock uses time.Now.
func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		pending: make(map[key]Pending),
		now:     now,
	}
}

// Issue records a confirmation for subject, replacing any earlier one with
// the same purpose.
func (r *Registry) Issue(subject string, purpose Purpose, code string, window time.Duration) Pending {
	return r.IssueUntil(subject, purpose, code, r.now().Add(window))
}

// IssueUntil is Issue with an explicit deadline.
func (r *Registry) IssueUntil(subject string, purpose Purpose, code string, deadline time.Time) Pending {
	p := Pending{Subject: subject, Purpose: purpose, Code: code, Deadline: deadline}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[key{subject, purpose}] = p
	return p
}

// Confirm answers the pending confirmation for subject. A matching code
// within the deadline clears the entry. Expired entries are left for Expire.
func (r *Registry) Confirm(subject string, purpose Purpose, code string) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{subject, purpose}
	p, ok := r.pending[k]
	if !ok {
		return OutcomeNotNeeded
	}
	if r.now().After(p.Deadline) {
		return OutcomeExpired
	}
	if p.Code != code {
		return OutcomeInvalidCode
	}
	delete(r.pending, k)
	return OutcomeConfirmed
}

// Withdraw drops a pending confirmation. Reports whether one existed.
func (r *Registry) Withdraw(subject string, purpose Purpose) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{subject, purpose}
	if _, ok := r.pending[k]; !ok {
		return false
	}
	delete(r.pending, k)
	return true
}

// Lookup returns the pending confirmation for subject, if any.
func (r *Registry) Lookup(subject string, purpose Purpose) (Pending, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[key{subject, purpose}]
	return p, ok
}

// Expire removes and returns every entry of purpose whose deadline is at or
// before now, ordered by subject.
func (r *Registry) Expire(purpose Purpose) []Pending {
	now := r.now()

	r.mu.Lock()
	var out []Pending
	for k, p := range r.pending {
		if k.purpose != purpose || p.Deadline.After(now) {
			continue
		}
		out = append(out, p)
		delete(r.pending, k)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out
}
