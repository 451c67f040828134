package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/backend"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/config"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/logging"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/orb"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/ui"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/voice"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleVoiceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper:
		return m.quit()

	case KeySpace:
		return m.toggleMic()

	case KeyMode:
		return m.cyclePref(backend.PrefMode)

	case KeyVoice:
		return m.cyclePref(backend.PrefVoice)

	case KeyAccept:
		cand, err := m.voice.AcceptCandidate()
		if err != nil {
			return m, nil
		}
		return m, rememberCandidateCmd(m.backend, cand)

	case KeyDismiss:
		m.voice.DismissCandidate()
		return m, nil

	case KeyPlayback:
		if id := m.voice.PlaybackID(); id != "" {
			return m, stopPlaybackCmd(m.backend, id)
		}
		return m, testSpeakCmd(m.backend, m.voiceName)

	case KeyChat:
		return m.switchView()
	}

	return m, nil
}

// toggleMic starts capture when idle and submits it when listening. It does
// nothing while a run is in flight.
func (m Model) toggleMic() (tea.Model, tea.Cmd) {
	switch m.voice.Mode() {
	case voice.Idle:
		if err := m.voice.StartListening(); err != nil {
			return m.transientError(err.Error())
		}
		m.cues.Start()
		return m, nil

	case voice.Listening:
		events, err := m.voice.StopListening(context.Background(), voice.Settings{
			Mode:  m.mode,
			Voice: m.voiceName,
		})
		if err != nil {
			logging.Logger().Warn("stop listening", "err", err)
			return m, nil
		}
		m.cues.Stop()
		return m, waitVoiceEventCmd(events)
	}

	return m, nil
}

func (m Model) renderVoice() string {
	height := m.bodyHeight()
	if m.errorMessage != "" {
		height--
	}

	var below []string
	below = append(below, m.renderVoiceStatus())
	below = append(below, "")

	textW := max(10, m.width-14)
	if tr, ok := m.voice.Transcript(); ok {
		below = append(below, labeled(ui.UserLabelStyle.Render("You       "), tr, textW)...)
	}
	if r, ok := m.voice.Reply(); ok {
		below = append(below, labeled(ui.AssistantLabelStyle.Render("Assistant "), r, textW)...)
	}
	if box := m.renderCandidate(); box != "" {
		below = append(below, strings.Split(box, "\n")...)
	}

	orbH := max(3, height-len(below)-1)
	orbW := min(m.width, orbH*4)
	sphere := orb.Render(orb.ParamsFor(m.voice.Mode()), m.orbTime, orbW, orbH)

	var lines []string
	for _, l := range strings.Split(sphere, "\n") {
		lines = append(lines, lipgloss.PlaceHorizontal(m.width, lipgloss.Center, l))
	}
	lines = append(lines, "")
	for _, l := range below {
		lines = append(lines, "  "+l)
	}
	return strings.Join(fitLines(lines, height), "\n")
}

func labeled(label, text string, width int) []string {
	wrapped := wrapText(text, width)
	indent := strings.Repeat(" ", lipgloss.Width(label))
	out := []string{label + wrapped[0]}
	for _, l := range wrapped[1:] {
		out = append(out, indent+l)
	}
	return out
}

func (m Model) renderVoiceStatus() string {
	var dot string
	switch m.voice.Mode() {
	case voice.Listening:
		dot = ui.ListeningDotStyle.Render("● LISTENING") + "  " + renderLevelMeter(m.voice.Level())
	case voice.Speaking:
		dot = ui.SpeakingDotStyle.Render("◆ SPEAKING")
	default:
		dot = ui.IdleDotStyle.Render("○ IDLE")
	}

	var playback string
	if id := m.voice.PlaybackID(); id != "" {
		playback = ui.DimStyle.Render("  playing " + id)
	}
	return dot + playback
}

func renderLevelMeter(level float32) string {
	const barLen = 8
	filled := int(level * barLen * 4) // speech RMS rarely exceeds 0.25
	if filled > barLen {
		filled = barLen
	}

	var bar string
	for i := 0; i < barLen; i++ {
		if i < filled {
			pct := float32(i) / float32(barLen)
			if pct > 0.6 {
				bar += ui.LevelDeepStyle.Render("█")
			} else {
				bar += ui.LevelBlueStyle.Render("█")
			}
		} else {
			bar += ui.LevelGrayStyle.Render("░")
		}
	}
	return ui.DimStyle.Render("MIC") + " " + bar
}

func (m Model) renderCandidate() string {
	cand, ok := m.voice.Candidate()
	if !ok {
		return ""
	}
	width := max(20, min(m.width-6, 72))
	text := truncateToWidth(fmt.Sprintf("%q", cand.Text), width-4)

	if !cand.Acceptable() {
		body := ui.ErrorTextStyle.Render("Can't remember this: "+cand.Disallowed) + "\n" + text
		return ui.DisallowedStyle.Width(width).Render(body)
	}

	prompt := ui.PanelTitleStyle.Render("Remember this?")
	switch {
	case m.voice.MemoryStatus() != "":
		prompt += "  " + ui.MemoryStatusStyle.Render(m.voice.MemoryStatus())
	case m.voice.Accepting():
		prompt += "  " + ui.DimStyle.Render("Saving...")
	}
	return ui.CandidateStyle.Width(width).Render(prompt + "\n" + text)
}

func (m Model) voiceFooter() []string {
	var parts []string
	switch m.voice.Mode() {
	case voice.Listening:
		parts = append(parts, footerKey("Space", "Send"))
	case voice.Idle:
		parts = append(parts, footerKey("Space", "Talk"))
	}

	if cand, ok := m.voice.Candidate(); ok {
		if cand.Acceptable() && !m.voice.Accepting() {
			parts = append(parts, footerKey("y", "Save"))
		}
		parts = append(parts, footerKey("n", "Dismiss"))
	}

	if m.voice.PlaybackID() != "" {
		parts = append(parts, footerKey("p", "Stop"))
	} else {
		parts = append(parts, footerKey("p", "Test voice"))
	}
	parts = append(parts, footerKey("m", "Mode"))
	parts = append(parts, footerKey("v", "Voice"))
	parts = append(parts, footerKey("c", string(config.ViewChat)))
	parts = append(parts, footerKey("q", "Quit"))
	return parts
}
