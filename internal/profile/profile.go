// Package profile holds the in-memory onboarding answers and their
// validation rules. The flow controller is the only mutator; the store
// persists snapshots of it.
package profile

import (
	"sort"
	"time"

	"lexi/internal/catalog"
)

// Limits bound the user-supplied fields. Zero values fall back to defaults.
type Limits struct {
	MaxNameLength int
	MaxGoals      int
	MaxTopics     int
}

// DefaultLimits mirrors what the UI enforces.
func DefaultLimits() Limits {
	return Limits{MaxNameLength: 50, MaxGoals: 5, MaxTopics: 5}
}

// Profile accumulates the user's onboarding answers. Optional single-choice
// fields are pointers so "unanswered" is distinguishable from any real answer.
type Profile struct {
	Referral    *catalog.ReferralSource
	Age         *catalog.AgeRange
	Gender      *catalog.Gender
	DisplayName string
	Goals       map[catalog.Goal]struct{}
	Topics      map[catalog.Topic]struct{}
	CompletedAt *time.Time
}

// New returns an empty profile ready to accumulate answers.
func New() *Profile {
	return &Profile{
		Goals:  make(map[catalog.Goal]struct{}),
		Topics: make(map[catalog.Topic]struct{}),
	}
}

// SetReferral records the referral answer.
func (p *Profile) SetReferral(r catalog.ReferralSource) { p.Referral = &r }

// SetAge records the age bucket.
func (p *Profile) SetAge(a catalog.AgeRange) { p.Age = &a }

// SetGender records the gender answer.
func (p *Profile) SetGender(g catalog.Gender) { p.Gender = &g }

// SetName records the display name as typed, untrimmed.
func (p *Profile) SetName(name string) { p.DisplayName = name }

// SetGoals replaces the goal set.
func (p *Profile) SetGoals(goals []catalog.Goal) {
	p.Goals = make(map[catalog.Goal]struct{}, len(goals))
	for _, g := range goals {
		p.Goals[g] = struct{}{}
	}
}

// SetTopics replaces the topic set.
func (p *Profile) SetTopics(topics []catalog.Topic) {
	p.Topics = make(map[catalog.Topic]struct{}, len(topics))
	for _, t := range topics {
		p.Topics[t] = struct{}{}
	}
}

// MarkCompleted stamps the completion time. The first stamp wins; onboarding
// completes at most once per install.
func (p *Profile) MarkCompleted(at time.Time) {
	if p.CompletedAt != nil {
		return
	}
	t := at
	p.CompletedAt = &t
}

// IsComplete reports whether the flow has been finished once.
func (p *Profile) IsComplete() bool { return p.CompletedAt != nil }

// GoalList returns the goals in stable (sorted) order.
func (p *Profile) GoalList() []catalog.Goal {
	out := make([]catalog.Goal, 0, len(p.Goals))
	for g := range p.Goals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TopicList returns the topics in stable (sorted) order.
func (p *Profile) TopicList() []catalog.Topic {
	out := make([]catalog.Topic, 0, len(p.Topics))
	for t := range p.Topics {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// trackedFields is the denominator of the completion fraction: six answer
// fields plus the completion stamp itself, so 100% is only reachable by
// finishing the flow.
const trackedFields = 7

// CompletionFraction returns how much of the profile is filled in, 0..1.
func (p *Profile) CompletionFraction() float64 {
	filled := 0
	if p.Referral != nil {
		filled++
	}
	if p.Age != nil {
		filled++
	}
	if p.Gender != nil {
		filled++
	}
	if p.DisplayName != "" {
		filled++
	}
	if len(p.Goals) > 0 {
		filled++
	}
	if len(p.Topics) > 0 {
		filled++
	}
	if p.CompletedAt != nil {
		filled++
	}
	return float64(filled) / float64(trackedFields)
}

// Clone returns a deep copy, used for immutable state snapshots.
func (p *Profile) Clone() *Profile {
	c := New()
	if p.Referral != nil {
		r := *p.Referral
		c.Referral = &r
	}
	if p.Age != nil {
		a := *p.Age
		c.Age = &a
	}
	if p.Gender != nil {
		g := *p.Gender
		c.Gender = &g
	}
	c.DisplayName = p.DisplayName
	for g := range p.Goals {
		c.Goals[g] = struct{}{}
	}
	for t := range p.Topics {
		c.Topics[t] = struct{}{}
	}
	if p.CompletedAt != nil {
		at := *p.CompletedAt
		c.CompletedAt = &at
	}
	return c
}
