package app

import (
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/backend"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/voice"
)

// PrefsLoadedMsg carries the preferences read at startup.
type PrefsLoadedMsg struct {
	Prefs backend.Preferences
	Err   error
}

// PrefSavedMsg reports the result of writing one preference through.
type PrefSavedMsg struct {
	Key string
	Err error
}

// VoiceEventMsg wraps a step result streamed from a voice pipeline run.
type VoiceEventMsg struct {
	Event  voice.Event
	events <-chan voice.Event
}

// voiceEventsClosedMsg is sent when a pipeline run's channel is drained.
type voiceEventsClosedMsg struct{}

// CandidateSavedMsg reports the result of remembering an accepted candidate.
type CandidateSavedMsg struct {
	ID  int
	Err error
}

// ClearCandidateMsg fires after the memory feedback delay.
type ClearCandidateMsg struct {
	ID int
}

// SpeakResultMsg carries the playback id of a test-speak request.
type SpeakResultMsg struct {
	PlaybackID string
	Err        error
}

// PlaybackStoppedMsg reports the result of a stop request for id.
type PlaybackStoppedMsg struct {
	ID  string
	Err error
}

// ChatReplyMsg carries the answer to a chat query. Gen identifies the chat
// session the query was sent from.
type ChatReplyMsg struct {
	Gen   int
	Reply string
	Err   error
}

// ChatRememberedMsg reports the result of a remember request from chat.
type ChatRememberedMsg struct {
	Gen int
	Err error
}

// ClearChatStatusMsg fires after the chat memory status has been shown.
type ClearChatStatusMsg struct {
	Seq int
}

// MemoryLoadedMsg carries the memory panel contents.
type MemoryLoadedMsg struct {
	Snapshot backend.Snapshot
	Local    bool // read from the local memory db
	Err      error
}

// MemoryChangedMsg reports a delete, clear or toggle from the memory panel.
type MemoryChangedMsg struct {
	Op  string
	Err error
}

// OrbTickMsg advances the orb animation.
type OrbTickMsg struct{}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
