package profile

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"lexi/internal/catalog"
)

func TestCompletionFraction(t *testing.T) {
	tests := []struct {
		name  string
		build func(p *Profile)
		want  float64
	}{
		{
			name:  "empty",
			build: func(p *Profile) {},
			want:  0,
		},
		{
			name:  "only referral",
			build: func(p *Profile) { p.SetReferral(catalog.ReferralFriend) },
			want:  1.0 / 7.0,
		},
		{
			name: "all answers but not completed",
			build: func(p *Profile) {
				p.SetReferral(catalog.ReferralFriend)
				p.SetAge(catalog.Age25to34)
				p.SetGender(catalog.GenderFemale)
				p.SetName("Robin")
				p.SetGoals([]catalog.Goal{catalog.GoalFun})
				p.SetTopics([]catalog.Topic{catalog.TopicHumor})
			},
			want: 6.0 / 7.0,
		},
		{
			name: "completed flow reads full",
			build: func(p *Profile) {
				p.SetReferral(catalog.ReferralFriend)
				p.SetAge(catalog.Age25to34)
				p.SetGender(catalog.GenderFemale)
				p.SetName("Robin")
				p.SetGoals([]catalog.Goal{catalog.GoalFun})
				p.SetTopics([]catalog.Topic{catalog.TopicHumor})
				p.MarkCompleted(time.Now())
			},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			tt.build(p)
			got := p.CompletionFraction()
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("CompletionFraction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarkCompletedFirstStampWins(t *testing.T) {
	p := New()
	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p.MarkCompleted(first)
	p.MarkCompleted(first.Add(time.Hour))

	if p.CompletedAt == nil || !p.CompletedAt.Equal(first) {
		t.Errorf("CompletedAt = %v, want %v", p.CompletedAt, first)
	}
}

func TestSetGoalsReplacesSet(t *testing.T) {
	p := New()
	p.SetGoals([]catalog.Goal{catalog.GoalFun, catalog.GoalExams, catalog.GoalFun})
	if len(p.Goals) != 2 {
		t.Errorf("Goals size = %d, want 2 (duplicates collapse)", len(p.Goals))
	}

	p.SetGoals([]catalog.Goal{catalog.GoalWork})
	want := []catalog.Goal{catalog.GoalWork}
	if diff := cmp.Diff(want, p.GoalList()); diff != "" {
		t.Errorf("GoalList mismatch (-want +got):\n%s", diff)
	}
}

func TestClone(t *testing.T) {
	p := New()
	p.SetReferral(catalog.ReferralPodcast)
	p.SetName("Robin")
	p.SetTopics([]catalog.Topic{catalog.TopicNature, catalog.TopicArts})

	c := p.Clone()
	c.SetName("Alex")
	c.SetTopics([]catalog.Topic{catalog.TopicHumor})
	*c.Referral = catalog.ReferralOther

	if p.DisplayName != "Robin" {
		t.Errorf("original name mutated: %q", p.DisplayName)
	}
	if *p.Referral != catalog.ReferralPodcast {
		t.Errorf("original referral mutated: %q", *p.Referral)
	}
	if len(p.Topics) != 2 {
		t.Errorf("original topics mutated: %v", p.TopicList())
	}
}

func TestValidate(t *testing.T) {
	overfull := make([]catalog.Goal, 0, len(catalog.Goals()))
	overfull = append(overfull, catalog.Goals()...)

	tests := []struct {
		name       string
		build      func(p *Profile)
		wantValid  bool
		wantFields []string
	}{
		{
			name:      "empty profile is valid",
			build:     func(p *Profile) {},
			wantValid: true,
		},
		{
			name:       "name too long",
			build:      func(p *Profile) { p.SetName(strings.Repeat("a", 51)) },
			wantValid:  false,
			wantFields: []string{"display_name"},
		},
		{
			name:      "name at the limit",
			build:     func(p *Profile) { p.SetName(strings.Repeat("a", 50)) },
			wantValid: true,
		},
		{
			name:      "accented name counts runes not bytes",
			build:     func(p *Profile) { p.SetName(strings.Repeat("é", 50)) },
			wantValid: true,
		},
		{
			name:       "too many goals",
			build:      func(p *Profile) { p.SetGoals(overfull) },
			wantValid:  false,
			wantFields: []string{"goals"},
		},
		{
			name: "multiple violations",
			build: func(p *Profile) {
				p.SetName(strings.Repeat("a", 51))
				p.SetGoals(overfull)
			},
			wantValid:  false,
			wantFields: []string{"display_name", "goals"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			tt.build(p)

			outcome := p.Validate(DefaultLimits())
			if outcome.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", outcome.Valid, tt.wantValid)
			}
			var fields []string
			for _, e := range outcome.Errors {
				fields = append(fields, e.Field)
			}
			if diff := cmp.Diff(tt.wantFields, fields); diff != "" {
				t.Errorf("violated fields mismatch (-want +got):\n%s", diff)
			}
			wantScore := float64(3-len(tt.wantFields)) / 3.0
			if outcome.Score != wantScore {
				t.Errorf("Score = %v, want %v", outcome.Score, wantScore)
			}
		})
	}
}
