package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/backend"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/logging"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/voice"
)

const (
	orbFrame           = 100 * time.Millisecond
	candidateFeedback  = 1200 * time.Millisecond
	chatStatusDuration = 1500 * time.Millisecond
	transientErrorLife = 5 * time.Second
)

// testSpeakText is spoken by the test-speak action.
const testSpeakText = "Hello from the UI"

// loadPrefsCmd reads the preference cache, falling back to the local memory
// db when the backend is unreachable.
func loadPrefsCmd(be Backend, local SnapshotSource) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		prefs, err := be.Preferences(ctx)
		if err != nil && local != nil {
			if snap, lerr := local.Snapshot(ctx); lerr == nil {
				return PrefsLoadedMsg{Prefs: snap.Prefs}
			}
		}
		return PrefsLoadedMsg{Prefs: prefs, Err: err}
	}
}

// setPrefCmd writes one preference through to the backend.
func setPrefCmd(be Backend, key, value string) tea.Cmd {
	return func() tea.Msg {
		return PrefSavedMsg{Key: key, Err: be.SetPreference(context.Background(), key, value)}
	}
}

// waitVoiceEventCmd reads the next event of a pipeline run.
func waitVoiceEventCmd(events <-chan voice.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return voiceEventsClosedMsg{}
		}
		return VoiceEventMsg{Event: ev, events: events}
	}
}

// rememberCandidateCmd saves an accepted voice candidate.
func rememberCandidateCmd(be Backend, c voice.Candidate) tea.Cmd {
	return func() tea.Msg {
		err := be.Remember(context.Background(), c.Text, backend.SourceVoice)
		if err != nil {
			logging.Logger().Warn("remember candidate failed", "err", err)
		}
		return CandidateSavedMsg{ID: c.ID, Err: err}
	}
}

// clearCandidateCmd fires once the save feedback has been shown.
func clearCandidateCmd(id int) tea.Cmd {
	return tea.Tick(candidateFeedback, func(time.Time) tea.Msg {
		return ClearCandidateMsg{ID: id}
	})
}

// testSpeakCmd speaks a fixed phrase with the selected voice.
func testSpeakCmd(be Backend, voiceName string) tea.Cmd {
	return func() tea.Msg {
		id, err := be.Speak(context.Background(), backend.SpeakRequest{
			Text:   testSpeakText,
			Voice:  voice.VoiceModel(voiceName),
			Volume: backend.Float64Ptr(1.0),
		})
		return SpeakResultMsg{PlaybackID: id, Err: err}
	}
}

// stopPlaybackCmd asks the backend to stop playback id.
func stopPlaybackCmd(be Backend, id string) tea.Cmd {
	return func() tea.Msg {
		return PlaybackStoppedMsg{ID: id, Err: be.StopPlayback(context.Background(), id)}
	}
}

// chatQueryCmd submits a chat message.
func chatQueryCmd(be Backend, gen int, req backend.QueryRequest) tea.Cmd {
	return func() tea.Msg {
		reply, err := be.Query(context.Background(), req)
		if err != nil {
			logging.Logger().Warn("chat query failed", "err", err)
		}
		return ChatReplyMsg{Gen: gen, Reply: reply, Err: err}
	}
}

// chatRememberCmd remembers exact text from the chat view.
func chatRememberCmd(be Backend, gen int, content string) tea.Cmd {
	return func() tea.Msg {
		return ChatRememberedMsg{Gen: gen, Err: be.Remember(context.Background(), content, "")}
	}
}

// clearChatStatusCmd hides the chat memory status after a delay.
func clearChatStatusCmd(seq int) tea.Cmd {
	return tea.Tick(chatStatusDuration, func(time.Time) tea.Msg {
		return ClearChatStatusMsg{Seq: seq}
	})
}

// fetchMemoryCmd loads the memory panel, reading the local memory db if
// every backend endpoint fails.
func fetchMemoryCmd(be Backend, local SnapshotSource) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		snap, err := be.FetchMemory(ctx)
		if err == nil {
			return MemoryLoadedMsg{Snapshot: snap}
		}
		if local != nil {
			lsnap, lerr := local.Snapshot(ctx)
			if lerr == nil {
				logging.Logger().Info("memory panel using local memory db", "err", err)
				return MemoryLoadedMsg{Snapshot: lsnap, Local: true}
			}
			logging.Logger().Warn("local memory db read failed", "err", lerr)
		}
		return MemoryLoadedMsg{Err: err}
	}
}

// deleteFactCmd deletes one fact.
func deleteFactCmd(be Backend, id int64) tea.Cmd {
	return func() tea.Msg {
		return MemoryChangedMsg{Op: "delete", Err: be.DeleteFact(context.Background(), id)}
	}
}

// clearMemoryCmd deletes every fact.
func clearMemoryCmd(be Backend) tea.Cmd {
	return func() tea.Msg {
		return MemoryChangedMsg{Op: "clear", Err: be.ClearMemory(context.Background())}
	}
}

// toggleMemoryCmd writes the memory_enabled preference.
func toggleMemoryCmd(be Backend, enabled bool) tea.Cmd {
	value := "off"
	if enabled {
		value = "on"
	}
	return func() tea.Msg {
		err := be.SetPreference(context.Background(), backend.PrefMemoryEnabled, value)
		return MemoryChangedMsg{Op: "toggle", Err: err}
	}
}

// orbTickCmd schedules the next orb frame.
func orbTickCmd() tea.Cmd {
	return tea.Tick(orbFrame, func(time.Time) tea.Msg {
		return OrbTickMsg{}
	})
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(transientErrorLife, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}
