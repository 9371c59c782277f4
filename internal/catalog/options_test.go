package catalog

import "testing"

func TestEveryOptionHasMetadata(t *testing.T) {
	for _, r := range ReferralSources() {
		if r.Display().Title == "" {
			t.Errorf("referral %q has no title", r)
		}
	}
	for _, a := range AgeRanges() {
		if a.Display().Title == "" {
			t.Errorf("age range %q has no title", a)
		}
	}
	for _, g := range Genders() {
		if g.Display().Title == "" {
			t.Errorf("gender %q has no title", g)
		}
	}
	for _, g := range Goals() {
		if g.Display().Title == "" {
			t.Errorf("goal %q has no title", g)
		}
	}
	for _, tp := range Topics() {
		if tp.Display().Title == "" {
			t.Errorf("topic %q has no title", tp)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, r := range ReferralSources() {
		got, ok := ParseReferralSource(string(r))
		if !ok || got != r {
			t.Errorf("ParseReferralSource(%q) = %q/%v", r, got, ok)
		}
	}
	for _, g := range Goals() {
		got, ok := ParseGoal(string(g))
		if !ok || got != g {
			t.Errorf("ParseGoal(%q) = %q/%v", g, got, ok)
		}
	}
	for _, tp := range Topics() {
		got, ok := ParseTopic(string(tp))
		if !ok || got != tp {
			t.Errorf("ParseTopic(%q) = %q/%v", tp, got, ok)
		}
	}

	if _, ok := ParseReferralSource("carrier_pigeon"); ok {
		t.Error("unknown referral source should not parse")
	}
	if _, ok := ParseAgeRange(""); ok {
		t.Error("empty age range should not parse")
	}
}
