package store

import "lexi/internal/catalog"

// Thin adapters from stored identifiers to catalog options. Unknown values
// are treated as corruption by the caller, not silently dropped.

func catalogReferral(s string) (*catalog.ReferralSource, bool) {
	r, ok := catalog.ParseReferralSource(s)
	if !ok {
		return nil, false
	}
	return &r, true
}

func catalogAge(s string) (*catalog.AgeRange, bool) {
	a, ok := catalog.ParseAgeRange(s)
	if !ok {
		return nil, false
	}
	return &a, true
}

func catalogGender(s string) (*catalog.Gender, bool) {
	g, ok := catalog.ParseGender(s)
	if !ok {
		return nil, false
	}
	return &g, true
}

func catalogGoal(s string) (*catalog.Goal, bool) {
	g, ok := catalog.ParseGoal(s)
	if !ok {
		return nil, false
	}
	return &g, true
}

func catalogTopic(s string) (*catalog.Topic, bool) {
	t, ok := catalog.ParseTopic(s)
	if !ok {
		return nil, false
	}
	return &t, true
}
