package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/backend"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/chat"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/config"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/logging"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/ui"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/voice"

	tea "github.com/charmbracelet/bubbletea"
)

// Backend is everything the views call on the assistant backend.
type Backend interface {
	voice.Backend
	StopPlayback(ctx context.Context, id string) error
	FetchMemory(ctx context.Context) (backend.Snapshot, error)
	Preferences(ctx context.Context) (backend.Preferences, error)
	SetPreference(ctx context.Context, key, value string) error
	Remember(ctx context.Context, content, source string) error
	DeleteFact(ctx context.Context, id int64) error
	ClearMemory(ctx context.Context) error
}

// SnapshotSource reads memory without the backend, e.g. a local memory db.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (backend.Snapshot, error)
}

// Cues plays feedback when capture starts and stops.
type Cues interface {
	Start()
	Stop()
}

type silentCues struct{}

func (silentCues) Start() {}
func (silentCues) Stop()  {}

// Options configures a Model.
type Options struct {
	Backend     Backend
	Microphone  voice.Microphone
	Cues        Cues
	LocalMemory SnapshotSource
	View        config.View
}

// ChatFocus tracks which part of the chat view has keyboard focus.
type ChatFocus int

const (
	FocusInput ChatFocus = iota
	FocusTranscript
)

// Model is the root bubbletea model. It hosts exactly one of the voice and
// chat views at a time.
type Model struct {
	// Collaborators
	backend Backend
	local   SnapshotSource
	cues    Cues

	// Shell
	view   config.View
	width  int
	height int

	// Shared preferences
	mode      string
	voiceName string

	// Voice view
	voice      *voice.Controller
	orbTime    float64
	orbTicking bool

	// Chat view
	chat          *chat.Session
	chatGen       int
	input         textinput.Model
	chatFocus     ChatFocus
	selected      int
	pending       int
	chatStatus    string
	chatStatusSeq int

	// Memory panel
	memoryOpen    bool
	memoryLoading bool
	memory        backend.Snapshot
	memoryLocal   bool
	memoryErr     string
	selectedFact  int

	// Errors
	errorMessage   string
	errorTransient bool
}

// New creates a Model showing opts.View.
func New(opts Options) Model {
	cues := opts.Cues
	if cues == nil {
		cues = silentCues{}
	}
	view := opts.View
	if view == "" {
		view = config.ViewVoice
	}

	m := Model{
		backend:   opts.Backend,
		local:     opts.LocalMemory,
		cues:      cues,
		view:      view,
		mode:      voice.DefaultMode,
		voiceName: voice.DefaultVoice,
		voice:     voice.NewController(opts.Microphone, opts.Backend),
		input:     newInput(),
	}
	m.resetChat()
	if view == config.ViewVoice {
		m.orbTicking = true
	}
	return m
}

func newInput() textinput.Model {
	in := textinput.New()
	in.Placeholder = "Type a message..."
	in.Prompt = "> "
	in.CharLimit = 2000
	return in
}

// Init loads preferences and starts the visible view.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadPrefsCmd(m.backend, m.local)}
	if m.orbTicking {
		cmds = append(cmds, orbTickCmd())
	}
	if m.view == config.ViewChat {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, m.transcriptPanelWidth()-4)
		return m, nil

	case PrefsLoadedMsg:
		if msg.Err != nil {
			logging.Logger().Warn("load preferences failed", "err", msg.Err)
			return m, nil
		}
		if v := msg.Prefs[backend.PrefMode]; v != "" {
			m.mode = v
		}
		if v := msg.Prefs[backend.PrefVoice]; v != "" {
			m.voiceName = v
		}
		return m, nil

	case PrefSavedMsg:
		if msg.Err != nil {
			logging.Logger().Warn("save preference failed", "key", msg.Key, "err", msg.Err)
			return m.transientError("Couldn't save " + msg.Key)
		}
		return m, nil

	case VoiceEventMsg:
		next := waitVoiceEventCmd(msg.events)
		if m.voice.Apply(msg.Event) && msg.Event.Kind == voice.EventFailed {
			var clearCmd tea.Cmd
			m, clearCmd = m.transientError(m.voice.LastFailure())
			return m, tea.Batch(next, clearCmd)
		}
		return m, next

	case voiceEventsClosedMsg:
		return m, nil

	case CandidateSavedMsg:
		m.voice.ResolveCandidate(msg.ID, msg.Err)
		return m, clearCandidateCmd(msg.ID)

	case ClearCandidateMsg:
		m.voice.ClearCandidate(msg.ID)
		return m, nil

	case SpeakResultMsg:
		if msg.Err != nil {
			logging.Logger().Warn("test speak failed", "err", msg.Err)
			return m.transientError("speak failed")
		}
		m.voice.SetPlayback(msg.PlaybackID)
		return m, nil

	case PlaybackStoppedMsg:
		if msg.Err != nil {
			logging.Logger().Warn("stop playback failed", "id", msg.ID, "err", msg.Err)
		}
		m.voice.ClearPlayback(msg.ID)
		return m, nil

	case ChatReplyMsg:
		if msg.Gen != m.chatGen {
			return m, nil
		}
		m.chat.Resolve(msg.Reply, msg.Err)
		m.pending = max(0, m.pending-1)
		return m, nil

	case ChatRememberedMsg:
		if msg.Gen != m.chatGen {
			return m, nil
		}
		m.chatStatus = voice.RememberStatus(msg.Err)
		m.chatStatusSeq++
		cmds := []tea.Cmd{clearChatStatusCmd(m.chatStatusSeq)}
		if msg.Err == nil && m.memoryOpen {
			m.memoryLoading = true
			cmds = append(cmds, fetchMemoryCmd(m.backend, m.local))
		}
		return m, tea.Batch(cmds...)

	case ClearChatStatusMsg:
		if msg.Seq == m.chatStatusSeq {
			m.chatStatus = ""
		}
		return m, nil

	case MemoryLoadedMsg:
		m.memoryLoading = false
		if msg.Err != nil {
			logging.Logger().Warn("load memory failed", "err", msg.Err)
			m.memoryErr = "Couldn't load memory"
			return m, nil
		}
		m.memoryErr = ""
		m.memory = msg.Snapshot
		m.memoryLocal = msg.Local
		if m.selectedFact >= len(m.memory.Facts) {
			m.selectedFact = max(0, len(m.memory.Facts)-1)
		}
		return m, nil

	case MemoryChangedMsg:
		refetch := fetchMemoryCmd(m.backend, m.local)
		m.memoryLoading = true
		if msg.Err != nil {
			logging.Logger().Warn("memory change failed", "op", msg.Op, "err", msg.Err)
			var clearCmd tea.Cmd
			m, clearCmd = m.transientError(msg.Op + " failed")
			return m, tea.Batch(refetch, clearCmd)
		}
		return m, refetch

	case OrbTickMsg:
		if m.view != config.ViewVoice {
			m.orbTicking = false
			return m, nil
		}
		m.orbTime += orbFrame.Seconds()
		return m, orbTickCmd()

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	if m.view == config.ViewChat {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// transientError shows text in the error bar until the clear tick.
func (m Model) transientError(text string) (Model, tea.Cmd) {
	m.errorMessage = text
	m.errorTransient = true
	return m, clearTransientErrorCmd()
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyCtrlC:
		return m.quit()
	case KeySwitchView:
		return m.switchView()
	}

	if m.view == config.ViewChat {
		return m.handleChatKey(msg)
	}
	return m.handleVoiceKey(msg)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.voice.Reset()
	return m, tea.Quit
}

// switchView tears down the visible view and shows the other one.
func (m Model) switchView() (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.errorTransient = false

	if m.view == config.ViewVoice {
		m.voice.Reset()
		m.view = config.ViewChat
		m.resetChat()
		return m, textinput.Blink
	}

	m.view = config.ViewVoice
	m.resetChat()
	if !m.orbTicking {
		m.orbTicking = true
		return m, orbTickCmd()
	}
	return m, nil
}

// resetChat discards the transcript and any in-flight chat results.
func (m *Model) resetChat() {
	m.chat = chat.NewSession()
	m.chatGen++
	m.pending = 0
	m.selected = -1
	m.chatFocus = FocusInput
	m.chatStatus = ""
	m.memoryOpen = false
	m.memoryLoading = false
	m.memoryErr = ""
	m.selectedFact = 0
	m.input.Reset()
	if m.view == config.ViewChat {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// cyclePref advances a picker and writes the new value through.
func (m Model) cyclePref(key string) (tea.Model, tea.Cmd) {
	switch key {
	case backend.PrefMode:
		m.mode = voice.Next(voice.Modes, m.mode)
		return m, setPrefCmd(m.backend, key, m.mode)
	case backend.PrefVoice:
		m.voiceName = voice.Next(voice.Voices, m.voiceName)
		return m, setPrefCmd(m.backend, key, m.voiceName)
	}
	return m, nil
}

func (m Model) bodyHeight() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + divider(1) + divider(1) + error(1) + footer(1)
	return max(5, m.height-5)
}

func (m Model) memoryPanelWidth() int {
	if m.width == 0 {
		return 30
	}
	return max(24, m.width*35/100)
}

func (m Model) transcriptPanelWidth() int {
	if m.width == 0 {
		return 60
	}
	if m.memoryOpen {
		return max(30, m.width-m.memoryPanelWidth()-1)
	}
	return m.width
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	if m.view == config.ViewChat {
		sections = append(sections, m.renderChat())
	} else {
		sections = append(sections, m.renderVoice())
	}

	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("ETHEREAL")
	view := ui.DimStyle.Render(" · " + string(m.view))
	prefs := ui.StatusStyle.Render("   mode ") + m.mode +
		ui.StatusStyle.Render("  voice ") + voice.VoiceLabel(m.voiceName)
	return title + view + prefs
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func (m Model) renderFooter() string {
	var parts []string
	if m.view == config.ViewChat {
		parts = m.chatFooter()
	} else {
		parts = m.voiceFooter()
	}
	parts = append(parts, footerKey("^T", "Switch view"))
	return strings.Join(parts, "  ")
}

func footerKey(key, desc string) string {
	return ui.FooterKeyStyle.Render(key) + ui.FooterDescStyle.Render(" "+desc)
}

// fitLines pads or cuts lines to exactly height rows.
func fitLines(lines []string, height int) []string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines[:height]
}

// Helpers

func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncateToWidth(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:width-1]) + "…"
	}
	return s
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		} else {
			lines = append(lines, "")
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
