package app

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/backend"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/chat"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.memoryOpen {
		return m.handleMemoryKey(msg)
	}
	if m.chatFocus == FocusInput {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case KeyQuit, KeyQuitUpper:
		return m.quit()

	case KeyTab:
		m.chatFocus = FocusInput
		cmd := m.input.Focus()
		return m, cmd

	case KeyEsc:
		m.selected = -1
		return m, nil

	case KeyJ, KeyDown:
		if m.selected < m.chat.Len()-1 {
			m.selected++
		}
		return m, nil

	case KeyK, KeyUp:
		if m.selected > 0 {
			m.selected--
		} else if m.selected < 0 {
			m.selected = m.chat.Len() - 1
		}
		return m, nil

	case KeyRemember:
		sel, ok := m.chat.At(m.selected)
		if !ok || sel.Role != chat.RoleAssistant {
			return m, nil
		}
		return m, chatRememberCmd(m.backend, m.chatGen, sel.Content)

	case KeyRememberThis:
		return m.rememberThis()

	case KeyMemoryPanel:
		return m.openMemory()

	case KeyMode:
		return m.cyclePref(backend.PrefMode)

	case KeyVoice:
		return m.cyclePref(backend.PrefVoice)
	}

	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEnter:
		req, ok := m.chat.Send(m.input.Value(), m.mode)
		if !ok {
			return m, nil
		}
		m.input.Reset()
		m.selected = -1
		m.pending++
		return m, chatQueryCmd(m.backend, m.chatGen, req)

	case KeyTab:
		m.chatFocus = FocusTranscript
		m.input.Blur()
		if m.selected < 0 {
			m.selected = m.chat.Len() - 1
		}
		return m, nil

	case KeyRememberCtrl:
		return m.rememberThis()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// rememberThis remembers the selected message, or else the last sent text.
func (m Model) rememberThis() (tea.Model, tea.Cmd) {
	content, ok := m.chat.RememberThis(m.selected)
	if !ok {
		return m, nil
	}
	m.selected = -1
	return m, chatRememberCmd(m.backend, m.chatGen, content)
}

func (m Model) openMemory() (tea.Model, tea.Cmd) {
	m.memoryOpen = true
	m.memoryLoading = true
	m.memoryErr = ""
	m.input.Width = max(10, m.transcriptPanelWidth()-4)
	return m, fetchMemoryCmd(m.backend, m.local)
}

func (m Model) handleMemoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	facts := m.memory.Facts

	switch msg.String() {
	case KeyEsc, KeyMemoryPanel:
		m.memoryOpen = false
		m.input.Width = max(10, m.transcriptPanelWidth()-4)
		return m, nil

	case KeyJ, KeyDown:
		if m.selectedFact < len(facts)-1 {
			m.selectedFact++
		}
		return m, nil

	case KeyK, KeyUp:
		if m.selectedFact > 0 {
			m.selectedFact--
		}
		return m, nil

	case KeyDeleteFact:
		if m.memoryLocal || m.selectedFact >= len(facts) {
			return m, nil
		}
		return m, deleteFactCmd(m.backend, facts[m.selectedFact].ID)

	case KeyToggleMemory:
		if m.memoryLocal {
			return m, nil
		}
		enabled := !m.memory.Prefs.MemoryEnabled()
		prefs := maps.Clone(m.memory.Prefs)
		if prefs == nil {
			prefs = backend.Preferences{}
		}
		m.memory.Prefs = prefs
		m.memory.Prefs[backend.PrefMemoryEnabled] = onOff(enabled)
		return m, toggleMemoryCmd(m.backend, enabled)

	case KeyClearMemory:
		if m.memoryLocal {
			return m, nil
		}
		return m, clearMemoryCmd(m.backend)
	}

	return m, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (m Model) renderChat() string {
	height := m.bodyHeight()
	if m.errorMessage != "" {
		height--
	}

	transcriptW := m.transcriptPanelWidth()
	transcript := m.renderTranscript(transcriptW, height-2)

	var status string
	switch {
	case m.chatStatus != "":
		status = ui.MemoryStatusStyle.Render("  " + m.chatStatus)
	case m.pending > 0:
		status = ui.DimStyle.Render("  Assistant is thinking...")
	}

	left := append(strings.Split(transcript, "\n"), status, m.input.View())
	if !m.memoryOpen {
		return strings.Join(fitLines(left, height), "\n")
	}

	right := strings.Split(m.renderMemoryPanel(m.memoryPanelWidth(), height), "\n")
	left = fitLines(left, height)
	right = fitLines(right, height)
	divider := ui.DividerStyle.Render("│")

	rows := make([]string, height)
	for i := range rows {
		rows[i] = padRight(truncateToWidth(left[i], transcriptW), transcriptW) + divider + right[i]
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderTranscript(width, height int) string {
	var header string
	if m.chatFocus == FocusTranscript {
		header = ui.PanelTitleActiveStyle.Render("CHAT")
	} else {
		header = ui.PanelTitleStyle.Render("CHAT")
	}

	// Prefix: "  [HH:MM] Assistant " = 20 chars visible
	const prefixWidth = 20
	textWidth := max(10, width-prefixWidth-2)
	indentStr := strings.Repeat(" ", prefixWidth)

	var displayLines []string
	selectedStart := -1
	for i, msg := range m.chat.Messages() {
		ts := ui.TimestampStyle.Render(msg.Timestamp.Format("[15:04]"))
		var label string
		if msg.Role == chat.RoleUser {
			label = ui.UserLabelStyle.Render("You       ")
		} else {
			label = ui.AssistantLabelStyle.Render("Assistant ")
		}

		marker := "  "
		if i == m.selected {
			marker = ui.SelectedStyle.Render("> ")
			selectedStart = len(displayLines)
		}

		wrapped := wrapText(msg.Content, textWidth)
		first := wrapped[0]
		if i == m.selected {
			first = ui.SelectedStyle.Render(first)
		}
		displayLines = append(displayLines, marker+ts+" "+label+first)
		for _, wl := range wrapped[1:] {
			displayLines = append(displayLines, indentStr+wl)
		}
	}

	contentHeight := height - 1
	start := 0
	if len(displayLines) > contentHeight {
		start = len(displayLines) - contentHeight
	}
	// Keep the selected message on screen.
	if selectedStart >= 0 && selectedStart < start {
		start = selectedStart
	}
	end := min(len(displayLines), start+contentHeight)

	lines := []string{header}
	lines = append(lines, displayLines[start:end]...)
	return strings.Join(fitLines(lines, height), "\n")
}

func (m Model) renderMemoryPanel(width, height int) string {
	var lines []string
	title := "MEMORY"
	if m.memoryLocal {
		title += " (local, read-only)"
	}
	lines = append(lines, ui.PanelTitleActiveStyle.Render(title))

	enabled := m.memory.Prefs.MemoryEnabled()
	badge := ui.BadgeOnStyle.Render("ON")
	if !enabled {
		badge = ui.BadgeOffStyle.Render("OFF")
	}
	lines = append(lines, " Memory "+badge)

	switch {
	case m.memoryLoading && len(m.memory.Facts) == 0 && len(m.memory.Prefs) == 0:
		lines = append(lines, ui.DimStyle.Render(" Loading..."))
	case m.memoryErr != "":
		lines = append(lines, ui.ErrorTextStyle.Render(" "+m.memoryErr))
	}

	lines = append(lines, "", ui.PanelTitleStyle.Render(" Preferences"))
	if len(m.memory.Prefs) == 0 {
		lines = append(lines, ui.DimStyle.Render("  none"))
	}
	for _, k := range slices.Sorted(maps.Keys(m.memory.Prefs)) {
		lines = append(lines, truncateToWidth(fmt.Sprintf("  %s: %s", k, m.memory.Prefs[k]), width))
	}

	lines = append(lines, "", ui.PanelTitleStyle.Render(fmt.Sprintf(" Facts (%d)", len(m.memory.Facts))))
	if len(m.memory.Facts) == 0 {
		lines = append(lines, ui.DimStyle.Render("  No facts yet"))
	}
	for i, f := range m.memory.Facts {
		text := truncateToWidth(f.Content, max(5, width-4))
		if i == m.selectedFact {
			lines = append(lines, ui.SelectedStyle.Render("> "+text))
		} else {
			lines = append(lines, "  "+text)
		}
	}

	return strings.Join(fitLines(lines, height), "\n")
}

func (m Model) chatFooter() []string {
	var parts []string
	switch {
	case m.memoryOpen:
		parts = append(parts, footerKey("j/k", "Select"))
		if !m.memoryLocal {
			parts = append(parts, footerKey("d", "Delete"))
			parts = append(parts, footerKey("e", "Toggle memory"))
			parts = append(parts, footerKey("C", "Clear all"))
		}
		parts = append(parts, footerKey("Esc", "Close"))
	case m.chatFocus == FocusInput:
		parts = append(parts, footerKey("Enter", "Send"))
		parts = append(parts, footerKey("^R", "Remember this"))
		parts = append(parts, footerKey("Tab", "Messages"))
	default:
		parts = append(parts, footerKey("j/k", "Select"))
		parts = append(parts, footerKey("r", "Remember"))
		parts = append(parts, footerKey("R", "Remember this"))
		parts = append(parts, footerKey("M", "Memory"))
		parts = append(parts, footerKey("m/v", "Mode/Voice"))
		parts = append(parts, footerKey("Tab", "Type"))
		parts = append(parts, footerKey("q", "Quit"))
	}
	return parts
}
