// Package onboarding implements the first-run wizard: a fixed sequence of
// eight steps, a flow controller that owns the profile while the wizard is
// active, and resume logic for partially completed installs.
package onboarding

// Step is one screen of the onboarding sequence. The ordering is fixed; steps
// are only ever referenced, never created or destroyed at runtime.
type Step int

const (
	StepReferral Step = iota // Where did you hear about us
	StepTailor               // Informational: why we ask
	StepAge                  // Age bucket
	StepGender               // Gender
	StepName                 // Display name
	StepGoals                // Learning goals (multi-select)
	StepTopics               // Vocabulary topics (multi-select)
	StepDone                 // Closing screen
)

// stepCount is the size of the fixed ordering.
const stepCount = 8

// Kind classifies how a step's form is rendered.
type Kind int

const (
	KindSingleChoice Kind = iota
	KindMultiChoice
	KindTextInput
	KindInfo
)

// Attrs are the static attributes of a step.
type Attrs struct {
	Name      string
	Title     string
	Required  bool
	Skippable bool
	Kind      Kind
}

var stepAttrs = [stepCount]Attrs{
	StepReferral: {Name: "referral", Title: "How did you find lexi?", Required: true, Kind: KindSingleChoice},
	StepTailor:   {Name: "tailor", Title: "Let's tailor your words", Kind: KindInfo},
	StepAge:      {Name: "age", Title: "How old are you?", Required: true, Kind: KindSingleChoice},
	StepGender:   {Name: "gender", Title: "How do you identify?", Required: true, Kind: KindSingleChoice},
	StepName:     {Name: "name", Title: "What should we call you?", Skippable: true, Kind: KindTextInput},
	StepGoals:    {Name: "goals", Title: "What are you here for?", Skippable: true, Kind: KindMultiChoice},
	StepTopics:   {Name: "topics", Title: "Pick your topics", Skippable: true, Kind: KindMultiChoice},
	StepDone:     {Name: "done", Title: "You're all set", Kind: KindInfo},
}

// Attrs returns the step's static attributes.
func (s Step) Attrs() Attrs {
	if s < 0 || s >= stepCount {
		return Attrs{}
	}
	return stepAttrs[s]
}

// String returns the stable step name used in persistence and events.
func (s Step) String() string { return s.Attrs().Name }

// Next returns the following step, or false at the terminal step.
func (s Step) Next() (Step, bool) {
	if s < 0 || s >= StepDone {
		return s, false
	}
	return s + 1, true
}

// Prev returns the preceding step, or false at the first step.
func (s Step) Prev() (Step, bool) {
	if s <= StepReferral || s >= stepCount {
		return s, false
	}
	return s - 1, true
}

// Steps returns the full ordering, first to last.
func Steps() []Step {
	out := make([]Step, stepCount)
	for i := range out {
		out[i] = Step(i)
	}
	return out
}
