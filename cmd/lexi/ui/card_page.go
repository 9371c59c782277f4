package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"lexi/internal/deck"
	"lexi/internal/progress"
	"lexi/internal/speech"
)

// clipboardWriteAll is swapped out in tests so they don't touch the real
// clipboard.
var clipboardWriteAll = clipboard.WriteAll

// statusLifetime is how long a transient status line stays visible.
const statusLifetime = 2 * time.Second

// statusExpireMsg clears the transient status line.
type statusExpireMsg struct{ seq int }

// DeckReloadedMsg replaces the session after the word packs changed on disk.
type DeckReloadedMsg struct {
	Session *progress.Session
}

// CardPageModel renders the daily word cards. Front shows the term and
// phonetics; flipping reveals definition, example and notes.
type CardPageModel struct {
	session *progress.Session
	speaker speech.Speaker
	styles  Styles

	flipped   bool
	status    string
	statusSeq int
	renderer  *glamour.TermRenderer

	width  int
	height int
}

// NewCardPage creates the card page over a learning session.
func NewCardPage(session *progress.Session, speaker speech.Speaker, styles Styles) CardPageModel {
	var opts []glamour.TermRendererOption
	if styles.Theme.IsDark {
		opts = append(opts, glamour.WithStandardStyle("dark"))
	} else {
		opts = append(opts, glamour.WithStandardStyle("light"))
	}
	opts = append(opts, glamour.WithWordWrap(56))
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		renderer = nil
	}
	return CardPageModel{
		session:  session,
		speaker:  speaker,
		styles:   styles,
		renderer: renderer,
	}
}

// SetSize updates the page dimensions.
func (m *CardPageModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m CardPageModel) setStatus(text string) (CardPageModel, tea.Cmd) {
	m.status = text
	m.statusSeq++
	seq := m.statusSeq
	return m, tea.Tick(statusLifetime, func(time.Time) tea.Msg {
		return statusExpireMsg{seq: seq}
	})
}

// Update handles messages for the card page.
func (m CardPageModel) Update(msg tea.Msg) (CardPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statusExpireMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case DeckReloadedMsg:
		m.session = msg.Session
		m.flipped = false
		return m.setStatus("Word packs reloaded")

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m CardPageModel) handleKey(msg tea.KeyMsg) (CardPageModel, tea.Cmd) {
	if len(m.session.Words()) == 0 {
		return m, nil
	}
	word := m.session.Current()

	switch msg.String() {
	case "left", "h":
		m.session.Retreat()
		m.flipped = false
	case "right", "l":
		m.session.Advance()
		m.flipped = false
	case " ", "f":
		m.flipped = !m.flipped
	case "enter":
		if !m.session.IsLearned(word.ID) {
			m.session.MarkLearned(word.ID)
			return m.setStatus(fmt.Sprintf("Learned %q", word.Term))
		}
	case "u":
		if m.session.IsLearned(word.ID) {
			m.session.MarkUnlearned(word.ID)
			return m.setStatus(fmt.Sprintf("Unmarked %q", word.Term))
		}
	case "s":
		m.speaker.Say(context.Background(), word.Term)
		return m.setStatus("Speaking…")
	case "c":
		if err := clipboardWriteAll(word.Term); err != nil {
			return m.setStatus("Clipboard unavailable")
		}
		return m.setStatus("Copied to clipboard")
	case "1", "2", "3", "4", "5":
		m.session.Seek(int(msg.String()[0] - '1'))
		m.flipped = false
	}
	return m, nil
}

// View renders the card page.
func (m CardPageModel) View() string {
	s := m.styles
	words := m.session.Words()

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	if len(words) == 0 {
		b.WriteString(s.Muted.Render("No words in today's deck. Add packs to your decks directory."))
		b.WriteString("\n")
		return s.Content.Render(b.String())
	}

	word := m.session.Current()
	if m.flipped {
		b.WriteString(m.viewBack(word))
	} else {
		b.WriteString(m.viewFront(word))
	}
	b.WriteString("\n")
	b.WriteString(m.viewDots())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(s.Info.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(s.Help.Render("←/→ cards  ·  space flip  ·  enter learn  ·  u unmark  ·  s speak  ·  c copy  ·  q quit"))

	return s.Content.Render(b.String())
}

func (m CardPageModel) viewHeader() string {
	s := m.styles
	streak := m.session.Streak()
	left := s.Header.Render("lexi")
	right := fmt.Sprintf("%s  %s",
		s.Badge.Render(fmt.Sprintf("🔥 %d", streak.Count)),
		s.Muted.Render(fmt.Sprintf("%d/%d today", m.session.CompletedCount(), m.session.Target())),
	)
	if m.session.IsComplete() {
		right += "  " + s.Success.Render("done for today")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

func (m CardPageModel) viewFront(word deck.Word) string {
	s := m.styles
	face := s.CardTerm.Render(word.Term)
	if word.Phonetic != "" {
		face += "\n" + s.Phonetic.Render(word.Phonetic)
	}
	if word.PartOfSpeech != "" {
		face += "\n" + s.Muted.Render(word.PartOfSpeech)
	}
	if m.session.IsLearned(word.ID) {
		face += "\n\n" + s.Success.Render("✓ learned")
	}
	return s.Card.Width(cardWidth(m.width)).Render(face)
}

func (m CardPageModel) viewBack(word deck.Word) string {
	s := m.styles
	var face strings.Builder
	face.WriteString(s.CardTerm.Render(word.Term))
	face.WriteString("\n\n")
	face.WriteString(s.Body.Render(word.Definition))
	if word.Example != "" {
		face.WriteString("\n\n")
		face.WriteString(s.Subtitle.Render("“" + word.Example + "”"))
	}
	if word.Notes != "" {
		face.WriteString("\n")
		face.WriteString(m.renderNotes(word.Notes))
	}
	return s.Card.Width(cardWidth(m.width)).Align(lipgloss.Left).Render(face.String())
}

func (m CardPageModel) renderNotes(notes string) string {
	if m.renderer == nil {
		return notes
	}
	out, err := m.renderer.Render(notes)
	if err != nil {
		return notes
	}
	return strings.TrimRight(out, "\n")
}

func (m CardPageModel) viewDots() string {
	s := m.styles
	var b strings.Builder
	for i, w := range m.session.Words() {
		dot := "○"
		if m.session.IsLearned(w.ID) {
			dot = "●"
		}
		if i == m.session.Active() {
			b.WriteString(s.Selected.Render(dot))
		} else if m.session.IsLearned(w.ID) {
			b.WriteString(s.Success.Render(dot))
		} else {
			b.WriteString(s.Muted.Render(dot))
		}
		b.WriteString(" ")
	}
	return strings.TrimRight(b.String(), " ")
}

func cardWidth(total int) int {
	if total <= 0 {
		return 60
	}
	w := total - 8
	if w > 64 {
		w = 64
	}
	if w < 30 {
		w = 30
	}
	return w
}
