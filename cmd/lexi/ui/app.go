package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"lexi/internal/onboarding"
	"lexi/internal/progress"
	"lexi/internal/speech"
)

// ViewMode determines which page is active.
type ViewMode int

const (
	OnboardView ViewMode = iota
	CardView
)

// App is the root model. It routes between the setup wizard and the daily
// cards; the wizard only appears while onboarding is incomplete.
type App struct {
	mode    ViewMode
	onboard OnboardPageModel
	cards   CardPageModel
	snap    onboarding.Snapshot

	width  int
	height int
}

// NewApp builds the root model. An already-completed flow skips the wizard.
func NewApp(flow *onboarding.Flow, session *progress.Session, speaker speech.Speaker, styles Styles) App {
	snap := flow.Snapshot()
	mode := OnboardView
	if snap.FlowState == onboarding.FlowCompleted && snap.Step == onboarding.StepDone {
		mode = CardView
	}
	return App{
		mode:    mode,
		onboard: NewOnboardPage(flow, styles),
		cards:   NewCardPage(session, speaker, styles),
		snap:    snap,
	}
}

// Init starts the cursor blink for the name input.
func (a App) Init() tea.Cmd {
	return textinput.Blink
}

// Update routes messages to the active page.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.onboard.SetSize(msg.Width, msg.Height)
		a.cards.SetSize(msg.Width, msg.Height)
		return a, nil

	case FlowMsg:
		a.snap = msg.Snap
		var cmd tea.Cmd
		a.onboard, cmd = a.onboard.Update(msg)
		return a, cmd

	case DeckReloadedMsg:
		var cmd tea.Cmd
		a.cards, cmd = a.cards.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.mode == OnboardView {
			var cmd tea.Cmd
			a.onboard, cmd = a.onboard.Update(msg)
			a.snap = a.onboard.snap
			// Acknowledging the done step hands off to the cards.
			if a.snap.FlowState == onboarding.FlowCompleted &&
				a.snap.Step == onboarding.StepDone && msg.String() == "enter" {
				a.mode = CardView
			}
			return a, cmd
		}
		if msg.String() == "q" {
			return a, tea.Quit
		}
		var cmd tea.Cmd
		a.cards, cmd = a.cards.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	if a.mode == OnboardView {
		a.onboard, cmd = a.onboard.Update(msg)
	} else {
		a.cards, cmd = a.cards.Update(msg)
	}
	return a, cmd
}

// View renders the active page.
func (a App) View() string {
	if a.mode == OnboardView {
		return a.onboard.View()
	}
	return a.cards.View()
}
