package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/deadair/tapedeck/internal/domain"
	"github.com/deadair/tapedeck/internal/service"
	"github.com/deadair/tapedeck/internal/tui/styles"
)

// focus identifies which part of the UI receives key input
type focus int

const (
	focusList focus = iota
	focusFilter
	focusForm
)

// showSource implements fuzzy.Source over show labels
type showSource struct {
	labels []string
}

func (s showSource) String(i int) string { return s.labels[i] }
func (s showSource) Len() int            { return len(s.labels) }

// Messages

type showsLoadedMsg struct {
	shows []domain.ShowKey
	err   error
}

type acquireDoneMsg struct {
	key   domain.ShowKey
	paths []string
	err   error
}

type playDoneMsg struct {
	key  domain.ShowKey
	path string
	err  error
}

// Model is the top-level bubbletea model
type Model struct {
	shows    *service.ShowsService
	acquire  *service.AcquireService
	playback *service.PlaybackService

	allShows []domain.ShowKey
	visible  []domain.ShowKey
	cursor   int

	focus       focus
	filterInput textinput.Model
	artistInput textinput.Model
	dateInput   textinput.Model
	formField   int // 0 = artist, 1 = date

	spin    spinner.Model
	busy    bool
	status  string
	err     error
	playing domain.ShowKey

	width  int
	height int
}

// NewModel creates the top-level model
func NewModel(shows *service.ShowsService, acquire *service.AcquireService, playback *service.PlaybackService) Model {
	filter := textinput.New()
	filter.Placeholder = "filter shows"
	filter.Prompt = "/ "
	filter.CharLimit = 64

	artist := textinput.New()
	artist.Placeholder = "GratefulDead"
	artist.Prompt = "artist: "
	artist.CharLimit = 64

	date := textinput.New()
	date.Placeholder = "1977-05-08"
	date.Prompt = "date:   "
	date.CharLimit = 10

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentStyle

	return Model{
		shows:       shows,
		acquire:     acquire,
		playback:    playback,
		filterInput: filter,
		artistInput: artist,
		dateInput:   date,
		spin:        sp,
	}
}

// Init loads the cached shows
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadShowsCmd(), m.spin.Tick)
}

// Commands

func (m Model) loadShowsCmd() tea.Cmd {
	svc := m.shows
	return func() tea.Msg {
		shows, err := svc.List()
		return showsLoadedMsg{shows: shows, err: err}
	}
}

func (m Model) acquireCmd(artist, date string) tea.Cmd {
	svc := m.acquire
	return func() tea.Msg {
		paths, err := svc.Acquire(context.Background(), artist, date, "")
		return acquireDoneMsg{
			key:   domain.ShowKey{Artist: artist, Date: date},
			paths: paths,
			err:   err,
		}
	}
}

func (m Model) playCmd(show domain.ShowKey) tea.Cmd {
	acquire, playback := m.acquire, m.playback
	return func() tea.Msg {
		// A cached show resolves without touching the network
		paths, err := acquire.Acquire(context.Background(), show.Artist, show.Date, "")
		if err != nil {
			return playDoneMsg{key: show, err: err}
		}
		if len(paths) == 0 {
			return playDoneMsg{key: show, err: domain.ErrNotFound}
		}
		if err := playback.Play(paths[0]); err != nil {
			return playDoneMsg{key: show, err: err}
		}
		return playDoneMsg{key: show, path: paths[0]}
	}
}

// Update handles messages

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case showsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.allShows = msg.shows
		m.applyFilter()
		return m, nil

	case acquireDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		if len(msg.paths) == 0 {
			m.status = fmt.Sprintf("no recordings found for %s", msg.key)
			return m, nil
		}
		m.status = fmt.Sprintf("fetched %d files for %s", len(msg.paths), msg.key)
		return m, m.loadShowsCmd()

	case playDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.playing = msg.key
		m.status = fmt.Sprintf("playing %s", msg.path)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit always works
	if key.Matches(msg, keys.Quit) && m.focus == focusList {
		m.playback.Stop()
		return m, tea.Quit
	}

	switch m.focus {
	case focusFilter:
		return m.handleFilterKey(msg)
	case focusForm:
		return m.handleFormKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if m.busy || len(m.visible) == 0 {
			return m, nil
		}
		m.busy = true
		m.status = "loading..."
		return m, tea.Batch(m.playCmd(m.visible[m.cursor]), m.spin.Tick)
	case key.Matches(msg, keys.Stop):
		m.playback.Stop()
		m.playing = domain.ShowKey{}
		m.status = "stopped"
	case key.Matches(msg, keys.Filter):
		m.focus = focusFilter
		m.filterInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, keys.New):
		if m.busy {
			return m, nil
		}
		m.focus = focusForm
		m.formField = 0
		m.artistInput.Focus()
		m.dateInput.Blur()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.focus = focusList
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.applyFilter()
		return m, nil
	case key.Matches(msg, keys.Enter):
		m.focus = focusList
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.focus = focusList
		m.artistInput.Blur()
		m.dateInput.Blur()
		return m, nil

	case msg.String() == "tab", msg.String() == "shift+tab":
		if m.formField == 0 {
			m.formField = 1
			m.artistInput.Blur()
			m.dateInput.Focus()
		} else {
			m.formField = 0
			m.dateInput.Blur()
			m.artistInput.Focus()
		}
		return m, textinput.Blink

	case key.Matches(msg, keys.Enter):
		artist := strings.TrimSpace(m.artistInput.Value())
		date := strings.TrimSpace(m.dateInput.Value())
		if artist == "" || date == "" {
			m.status = "artist and date are required"
			return m, nil
		}
		m.focus = focusList
		m.artistInput.Blur()
		m.dateInput.Blur()
		m.busy = true
		m.err = nil
		m.status = fmt.Sprintf("searching for %s %s...", artist, date)
		return m, tea.Batch(m.acquireCmd(artist, date), m.spin.Tick)
	}

	var cmd tea.Cmd
	if m.formField == 0 {
		m.artistInput, cmd = m.artistInput.Update(msg)
	} else {
		m.dateInput, cmd = m.dateInput.Update(msg)
	}
	return m, cmd
}

// applyFilter recomputes the visible shows from the filter input
func (m *Model) applyFilter() {
	query := strings.TrimSpace(m.filterInput.Value())
	if query == "" {
		m.visible = m.allShows
	} else {
		labels := make([]string, len(m.allShows))
		for i, show := range m.allShows {
			labels[i] = strings.ToLower(show.String())
		}
		matches := fuzzy.FindFrom(strings.ToLower(query), showSource{labels: labels})
		visible := make([]domain.ShowKey, len(matches))
		for i, match := range matches {
			visible[i] = m.allShows[match.Index]
		}
		m.visible = visible
	}

	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the UI

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("tapedeck"))
	b.WriteString(styles.DimStyle.Render("  live show time machine"))
	b.WriteString("\n\n")

	if m.focus == focusForm {
		b.WriteString(m.artistInput.View())
		b.WriteString("\n")
		b.WriteString(m.dateInput.View())
		b.WriteString("\n\n")
		b.WriteString(styles.DimStyle.Render("tab switch field · enter fetch · esc cancel"))
	} else {
		b.WriteString(m.viewShowList())
	}

	b.WriteString("\n\n")
	b.WriteString(m.viewStatus())

	return styles.AppStyle.Render(b.String())
}

func (m Model) viewShowList() string {
	var b strings.Builder

	if m.focus == focusFilter || m.filterInput.Value() != "" {
		b.WriteString(m.filterInput.View())
		b.WriteString("\n\n")
	}

	if len(m.visible) == 0 {
		b.WriteString(styles.DimStyle.Render("no cached shows - press a to fetch one"))
		return b.String()
	}

	for i, show := range m.visible {
		label := show.String()
		marker := "  "
		if show == m.playing {
			marker = styles.SuccessStyle.Render(styles.PlayingChar) + " "
		}
		if i == m.cursor && m.focus == focusList {
			b.WriteString(marker + styles.SelectedStyle.Render(label))
		} else {
			b.WriteString(marker + styles.SubtitleStyle.Render(label))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewStatus() string {
	var parts []string

	if m.busy {
		parts = append(parts, m.spin.View()+styles.AccentStyle.Render(m.status))
	} else if m.err != nil {
		parts = append(parts, styles.ErrorStyle.Render("error: "+m.err.Error()))
	} else if m.status != "" {
		parts = append(parts, styles.SubtitleStyle.Render(m.status))
	}

	parts = append(parts, styles.DimStyle.Render("enter play · a fetch · / filter · s stop · q quit"))
	return strings.Join(parts, "\n")
}
