package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"lexi/internal/catalog"
	"lexi/internal/onboarding"
)

// FlowMsg carries a fresh onboarding snapshot into the update loop. The flow
// publishes these through its observer hook; save failures arrive this way
// too, since persistence runs off the UI goroutine.
type FlowMsg struct {
	Snap onboarding.Snapshot
}

// choice is one selectable row in a picker step.
type choice struct {
	value string
	meta  catalog.Meta
}

// OnboardPageModel renders the setup wizard. The flow owns all state; this
// model only tracks presentation concerns like the cursor and the pending
// multi-select before the user commits a step.
type OnboardPageModel struct {
	flow   *onboarding.Flow
	styles Styles
	snap   onboarding.Snapshot

	cursor    int
	picked    map[string]bool
	nameInput textinput.Model
	bar       progress.Model

	width  int
	height int
}

// NewOnboardPage creates the wizard page bound to a live flow.
func NewOnboardPage(flow *onboarding.Flow, styles Styles) OnboardPageModel {
	ti := textinput.New()
	ti.Placeholder = "Your name"
	ti.CharLimit = 50
	ti.Focus()

	bar := progress.New(
		progress.WithSolidFill(string(styles.Theme.Primary)),
		progress.WithoutPercentage(),
	)

	m := OnboardPageModel{
		flow:      flow,
		styles:    styles,
		picked:    make(map[string]bool),
		nameInput: ti,
		bar:       bar,
	}
	m.applySnapshot(flow.Snapshot())
	return m
}

// SetSize updates the page dimensions.
func (m *OnboardPageModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = min(width-8, 46)
}

// applySnapshot swaps in a new snapshot and re-seeds the presentation state
// from the profile when the step changed.
func (m *OnboardPageModel) applySnapshot(snap onboarding.Snapshot) {
	prev := m.snap.Step
	m.snap = snap
	if snap.Step == prev {
		return
	}

	m.cursor = 0
	m.picked = make(map[string]bool)
	p := snap.Profile
	switch snap.Step {
	case onboarding.StepReferral:
		if p.Referral != nil {
			m.cursor = choiceIndex(m.choices(), string(*p.Referral))
		}
	case onboarding.StepAge:
		if p.Age != nil {
			m.cursor = choiceIndex(m.choices(), string(*p.Age))
		}
	case onboarding.StepGender:
		if p.Gender != nil {
			m.cursor = choiceIndex(m.choices(), string(*p.Gender))
		}
	case onboarding.StepName:
		m.nameInput.SetValue(p.DisplayName)
		m.nameInput.CursorEnd()
	case onboarding.StepGoals:
		for g := range p.Goals {
			m.picked[string(g)] = true
		}
	case onboarding.StepTopics:
		for t := range p.Topics {
			m.picked[string(t)] = true
		}
	}
}

func choiceIndex(choices []choice, value string) int {
	for i, c := range choices {
		if c.value == value {
			return i
		}
	}
	return 0
}

// choices returns the picker rows for the current step. Info and text steps
// have none.
func (m OnboardPageModel) choices() []choice {
	var out []choice
	switch m.snap.Step {
	case onboarding.StepReferral:
		for _, r := range catalog.ReferralSources() {
			out = append(out, choice{value: string(r), meta: r.Display()})
		}
	case onboarding.StepAge:
		for _, a := range catalog.AgeRanges() {
			out = append(out, choice{value: string(a), meta: a.Display()})
		}
	case onboarding.StepGender:
		for _, g := range catalog.Genders() {
			out = append(out, choice{value: string(g), meta: g.Display()})
		}
	case onboarding.StepGoals:
		for _, g := range catalog.Goals() {
			out = append(out, choice{value: string(g), meta: g.Display()})
		}
	case onboarding.StepTopics:
		for _, t := range catalog.Topics() {
			out = append(out, choice{value: string(t), meta: t.Display()})
		}
	}
	return out
}

// Update handles messages for the wizard page.
func (m OnboardPageModel) Update(msg tea.Msg) (OnboardPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case FlowMsg:
		m.applySnapshot(msg.Snap)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m OnboardPageModel) handleKey(msg tea.KeyMsg) (OnboardPageModel, tea.Cmd) {
	kind := m.snap.Step.Attrs().Kind

	// An error banner is dismissed by any key before input resumes.
	if m.snap.ErrorState != onboarding.ErrorNone {
		m.flow.ClearError()
		m.applySnapshot(m.flow.Snapshot())
		return m, nil
	}

	switch msg.String() {
	case "left", "shift+tab":
		if m.snap.CanRetreat {
			m.flow.Retreat()
			m.applySnapshot(m.flow.Snapshot())
		}
		return m, nil
	case "tab":
		if m.snap.CanSkip {
			m.flow.Skip()
			m.applySnapshot(m.flow.Snapshot())
		}
		return m, nil
	}

	switch kind {
	case onboarding.KindInfo:
		if msg.String() == "enter" || msg.String() == " " {
			m.flow.Advance()
			m.applySnapshot(m.flow.Snapshot())
		}
		return m, nil

	case onboarding.KindTextInput:
		if msg.String() == "enter" {
			m.flow.UpdateName(strings.TrimSpace(m.nameInput.Value()))
			m.flow.Advance()
			m.applySnapshot(m.flow.Snapshot())
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd

	case onboarding.KindSingleChoice:
		return m.handleSingleChoice(msg), nil

	case onboarding.KindMultiChoice:
		return m.handleMultiChoice(msg), nil
	}
	return m, nil
}

func (m OnboardPageModel) handleSingleChoice(msg tea.KeyMsg) OnboardPageModel {
	choices := m.choices()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(choices)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor >= len(choices) {
			return m
		}
		val := choices[m.cursor].value
		switch m.snap.Step {
		case onboarding.StepReferral:
			if r, ok := catalog.ParseReferralSource(val); ok {
				m.flow.UpdateReferral(r)
			}
		case onboarding.StepAge:
			if a, ok := catalog.ParseAgeRange(val); ok {
				m.flow.UpdateAge(a)
			}
		case onboarding.StepGender:
			if g, ok := catalog.ParseGender(val); ok {
				m.flow.UpdateGender(g)
			}
		}
		m.flow.Advance()
		m.applySnapshot(m.flow.Snapshot())
	}
	return m
}

func (m OnboardPageModel) handleMultiChoice(msg tea.KeyMsg) OnboardPageModel {
	choices := m.choices()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(choices)-1 {
			m.cursor++
		}
	case " ":
		if m.cursor < len(choices) {
			val := choices[m.cursor].value
			m.picked[val] = !m.picked[val]
		}
	case "enter":
		m.commitMultiChoice(choices)
		m.flow.Advance()
		m.applySnapshot(m.flow.Snapshot())
	}
	return m
}

func (m OnboardPageModel) commitMultiChoice(choices []choice) {
	switch m.snap.Step {
	case onboarding.StepGoals:
		var goals []catalog.Goal
		for _, c := range choices {
			if m.picked[c.value] {
				if g, ok := catalog.ParseGoal(c.value); ok {
					goals = append(goals, g)
				}
			}
		}
		m.flow.UpdateGoals(goals)
	case onboarding.StepTopics:
		var topics []catalog.Topic
		for _, c := range choices {
			if m.picked[c.value] {
				if t, ok := catalog.ParseTopic(c.value); ok {
					topics = append(topics, t)
				}
			}
		}
		m.flow.UpdateTopics(topics)
	}
}

// View renders the wizard page.
func (m OnboardPageModel) View() string {
	s := m.styles
	attrs := m.snap.Step.Attrs()

	var b strings.Builder
	b.WriteString(s.Header.Render("lexi setup"))
	b.WriteString("\n\n")
	b.WriteString(s.Title.Render(attrs.Title))
	b.WriteString("\n")

	if m.snap.ErrorState != onboarding.ErrorNone {
		b.WriteString(s.Error.Render(errorBanner(m.snap.ErrorState)))
		b.WriteString("\n")
		b.WriteString(s.Muted.Render("Press any key to continue."))
		b.WriteString("\n")
		return s.Content.Render(b.String())
	}

	switch attrs.Kind {
	case onboarding.KindInfo:
		b.WriteString(m.viewInfo())
	case onboarding.KindTextInput:
		b.WriteString(m.nameInput.View())
		b.WriteString("\n")
	default:
		b.WriteString(m.viewChoices())
	}

	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(m.snap.Completion))
	b.WriteString(s.Muted.Render(fmt.Sprintf("  %d%%", int(m.snap.Completion*100))))
	b.WriteString("\n\n")
	b.WriteString(s.Help.Render(m.helpLine(attrs)))

	return s.Content.Render(b.String())
}

func (m OnboardPageModel) viewInfo() string {
	s := m.styles
	if m.snap.Step == onboarding.StepDone {
		name := m.snap.Profile.DisplayName
		if name == "" {
			name = "friend"
		}
		return s.Body.Render(fmt.Sprintf("Nice to meet you, %s. Your first five words are waiting.", name)) + "\n"
	}
	return s.Body.Render("A few quick questions so your daily words fit you.") + "\n"
}

func (m OnboardPageModel) viewChoices() string {
	s := m.styles
	multi := m.snap.Step.Attrs().Kind == onboarding.KindMultiChoice

	var b strings.Builder
	for i, c := range m.choices() {
		marker := "  "
		title := c.meta.Title
		if multi {
			if m.picked[c.value] {
				marker = s.Success.Render("✓ ")
			}
		}
		line := marker + title
		if c.meta.Description != "" {
			line += s.Muted.Render("  " + c.meta.Description)
		}
		if i == m.cursor {
			line = s.Selected.Render("› ") + s.Selected.Render(title)
			if c.meta.Description != "" {
				line += s.Muted.Render("  " + c.meta.Description)
			}
			if multi && m.picked[c.value] {
				line = s.Success.Render("✓ ") + line
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m OnboardPageModel) helpLine(attrs onboarding.Attrs) string {
	parts := []string{}
	switch attrs.Kind {
	case onboarding.KindSingleChoice:
		parts = append(parts, "↑/↓ move", "enter select")
	case onboarding.KindMultiChoice:
		parts = append(parts, "↑/↓ move", "space toggle", "enter continue")
	case onboarding.KindTextInput:
		parts = append(parts, "enter continue")
	case onboarding.KindInfo:
		parts = append(parts, "enter continue")
	}
	if m.snap.CanRetreat {
		parts = append(parts, "← back")
	}
	if m.snap.CanSkip {
		parts = append(parts, "tab skip")
	}
	parts = append(parts, "ctrl+c quit")
	return strings.Join(parts, "  ·  ")
}

func errorBanner(e onboarding.ErrorState) string {
	switch e {
	case onboarding.ErrorLoadFailed:
		return "Couldn't load your saved answers. Starting fresh for now."
	case onboarding.ErrorSaveFailed:
		return "Couldn't save your answers. They're kept for this session."
	case onboarding.ErrorValidationFailed:
		return "Some answers didn't look right. Please review them."
	default:
		return "Something went wrong. Your answers are kept for this session."
	}
}
