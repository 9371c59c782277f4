package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"lexi/internal/deck"
	"lexi/internal/onboarding"
	"lexi/internal/progress"
	"lexi/internal/speech"
	"lexi/internal/store"
)

// memGateway keeps profile records in memory for wizard tests.
type memGateway struct {
	rec *store.ProfileRecord
}

func (g *memGateway) SaveProfile(rec *store.ProfileRecord) error {
	g.rec = rec
	return nil
}

func (g *memGateway) FetchProfile() (*store.ProfileRecord, error) {
	if g.rec == nil {
		return nil, store.ErrNotFound
	}
	return g.rec, nil
}

func (g *memGateway) ClearProfile() error {
	g.rec = nil
	return nil
}

func newTestFlow(t *testing.T) *onboarding.Flow {
	t.Helper()
	f := onboarding.NewFlow(onboarding.Config{
		Gateway:   &memGateway{},
		AllowBack: true,
	})
	t.Cleanup(f.Wait)
	return f
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestOnboardSingleChoiceAdvances(t *testing.T) {
	flow := newTestFlow(t)
	m := NewOnboardPage(flow, NewStyles(DarkTheme()))
	m.SetSize(80, 24)

	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("enter"))

	snap := flow.Snapshot()
	require.Equal(t, onboarding.StepTailor, snap.Step)
	require.NotNil(t, snap.Profile.Referral)
}

func TestOnboardWizardWalkthrough(t *testing.T) {
	flow := newTestFlow(t)
	m := NewOnboardPage(flow, NewStyles(DarkTheme()))
	m.SetSize(80, 24)

	m, _ = m.Update(key("enter")) // referral
	m, _ = m.Update(key("enter")) // tailor info
	m, _ = m.Update(key("enter")) // age
	m, _ = m.Update(key("enter")) // gender
	for _, r := range "Ada" {
		m, _ = m.Update(key(string(r)))
	}
	m, _ = m.Update(key("enter")) // name
	m, _ = m.Update(key(" "))     // toggle a goal
	m, _ = m.Update(key("enter")) // goals
	m, _ = m.Update(key(" "))     // toggle a topic
	m, _ = m.Update(key("enter")) // topics
	m, _ = m.Update(key("enter")) // done

	flow.Wait()
	snap := flow.Snapshot()
	require.Equal(t, onboarding.StepDone, snap.Step)
	require.Equal(t, onboarding.FlowCompleted, snap.FlowState)
	require.Equal(t, "Ada", snap.Profile.DisplayName)
	require.Len(t, snap.Profile.Goals, 1)
}

func TestOnboardRetreatAndSkip(t *testing.T) {
	flow := newTestFlow(t)
	m := NewOnboardPage(flow, NewStyles(DarkTheme()))

	m, _ = m.Update(key("enter")) // referral -> tailor
	m, _ = m.Update(key("left"))  // back to referral
	require.Equal(t, onboarding.StepReferral, flow.Snapshot().Step)

	m, _ = m.Update(key("enter")) // referral
	m, _ = m.Update(key("enter")) // tailor
	m, _ = m.Update(key("enter")) // age
	m, _ = m.Update(key("enter")) // gender -> name
	m, _ = m.Update(key("tab"))   // skip name
	require.Equal(t, onboarding.StepGoals, flow.Snapshot().Step)
	require.Empty(t, flow.Snapshot().Profile.DisplayName)
}

func TestOnboardViewShowsTitle(t *testing.T) {
	flow := newTestFlow(t)
	m := NewOnboardPage(flow, NewStyles(DarkTheme()))
	m.SetSize(80, 24)

	out := m.View()
	require.Contains(t, out, "How did you find lexi?")
}

type memRecorder struct {
	learned map[string]bool
}

func (r *memRecorder) MarkLearned(id string) error {
	if r.learned == nil {
		r.learned = make(map[string]bool)
	}
	r.learned[id] = true
	return nil
}

func (r *memRecorder) MarkUnlearned(id string) error {
	delete(r.learned, id)
	return nil
}

func (r *memRecorder) RecordActivity(time.Time) (store.StreakState, error) {
	return store.StreakState{Count: 1}, nil
}

func newTestCards(t *testing.T) (CardPageModel, *progress.Session) {
	t.Helper()
	words := []deck.Word{
		{ID: "w1", Term: "ephemeral", Phonetic: "/əˈfem(ə)rəl/", Definition: "lasting a very short time"},
		{ID: "w2", Term: "laconic", Definition: "using few words"},
		{ID: "w3", Term: "sonder", Definition: "the realization that every passerby has a vivid inner life", Notes: "*coined* in 2012"},
	}
	session := progress.NewSession(words, nil, store.StreakState{}, &memRecorder{})
	return NewCardPage(session, speech.Noop{}, NewStyles(DarkTheme())), session
}

func TestCardNavigationClampsAndFlips(t *testing.T) {
	m, session := newTestCards(t)

	m, _ = m.Update(key("left"))
	require.Equal(t, 0, session.Active())

	m, _ = m.Update(key("right"))
	require.Equal(t, 1, session.Active())

	m, _ = m.Update(key(" "))
	require.True(t, m.flipped)
	m, _ = m.Update(key("right"))
	require.False(t, m.flipped, "navigation resets the flip")
}

func TestCardLearnAndUnlearn(t *testing.T) {
	m, session := newTestCards(t)

	m, _ = m.Update(key("enter"))
	require.True(t, session.IsLearned("w1"))
	require.Equal(t, 1, session.CompletedCount())

	m, _ = m.Update(key("u"))
	require.False(t, session.IsLearned("w1"))
}

func TestCardCopyUsesClipboard(t *testing.T) {
	orig := clipboardWriteAll
	defer func() { clipboardWriteAll = orig }()

	var copied string
	clipboardWriteAll = func(s string) error {
		copied = s
		return nil
	}

	m, _ := newTestCards(t)
	m, _ = m.Update(key("c"))
	require.Equal(t, "ephemeral", copied)
	require.Contains(t, m.status, "Copied")
}

func TestCardViewFaces(t *testing.T) {
	m, _ := newTestCards(t)
	m.SetSize(80, 24)

	front := m.View()
	require.Contains(t, front, "ephemeral")
	require.NotContains(t, front, "lasting a very short time")

	m, _ = m.Update(key(" "))
	back := m.View()
	require.Contains(t, back, "lasting a very short time")
}

func TestAppSwitchesToCardsAfterDone(t *testing.T) {
	flow := newTestFlow(t)
	_, session := newTestCards(t)
	app := NewApp(flow, session, speech.Noop{}, NewStyles(DarkTheme()))
	require.Equal(t, OnboardView, app.mode)

	var model tea.Model = app
	for i := 0; i < 4; i++ {
		model, _ = model.Update(key("enter")) // referral, tailor, age, gender
	}
	model, _ = model.Update(key("tab")) // skip name
	model, _ = model.Update(key("tab")) // skip goals
	model, _ = model.Update(key("tab")) // skip topics

	a := model.(App)
	require.Equal(t, onboarding.StepDone, flow.Snapshot().Step)
	require.Equal(t, OnboardView, a.mode)

	model, _ = model.Update(key("enter")) // acknowledges the done step
	flow.Wait()
	a = model.(App)
	require.Equal(t, CardView, a.mode)
	require.True(t, strings.Contains(a.View(), "lexi"))
}

func TestThemeDetectionEnvOverride(t *testing.T) {
	t.Setenv("LEXI_LIGHT_MODE", "1")
	require.False(t, DetectTheme().IsDark)

	t.Setenv("LEXI_LIGHT_MODE", "")
	t.Setenv("COLORFGBG", "0;15")
	require.False(t, DetectTheme().IsDark)

	t.Setenv("COLORFGBG", "15;0")
	require.True(t, DetectTheme().IsDark)
}
