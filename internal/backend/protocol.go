// Package backend provides the HTTP client and wire types for talking to the
// assistant backend: query answering, speech-to-text, text-to-speech and the
// memory/preference store.
package backend

import (
	"encoding/json"
	"strings"
)

// Sources tag where an exchange came from. The backend only persists
// voice-originated content as long-term memory on explicit request.
const (
	SourceText  = "text"
	SourceVoice = "voice"
)

// Preference keys understood by the backend.
const (
	PrefMode          = "mode"
	PrefVoice         = "voice"
	PrefMemoryEnabled = "memory_enabled"
)

// Preferences maps preference keys to values.
type Preferences map[string]string

// MemoryEnabled reports whether long-term memory is switched on. Missing
// values count as enabled.
func (p Preferences) MemoryEnabled() bool {
	switch strings.ToLower(p[PrefMemoryEnabled]) {
	case "off", "false", "0":
		return false
	}
	return true
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Input  string `json:"input"`
	Mode   string `json:"mode,omitempty"`
	Source string `json:"source,omitempty"`
}

// QueryResponse is returned by POST /query. Older backends answer in
// output or text instead of response.
type QueryResponse struct {
	Response string `json:"response,omitempty"`
	Output   string `json:"output,omitempty"`
	Text     string `json:"text,omitempty"`
}

// Reply returns the first non-empty answer field.
func (r QueryResponse) Reply() string {
	for _, s := range []string{r.Response, r.Output, r.Text} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Transcription is returned by POST /stt.
type Transcription struct {
	Transcript            string  `json:"transcript"`
	ContainsMemoryCommand bool    `json:"contains_memory_command,omitempty"`
	DisallowedReason      *string `json:"disallowed_memory_reason,omitempty"`
}

// Reason returns the disallowed-memory reason, or "" when there is none.
func (t Transcription) Reason() string {
	if t.DisallowedReason == nil {
		return ""
	}
	return *t.DisallowedReason
}

// SpeakRequest is the body of POST /speak.
type SpeakRequest struct {
	Text   string   `json:"text"`
	Voice  string   `json:"voice"`
	Volume *float64 `json:"volume,omitempty"`
}

// SpeakResponse is returned by POST /speak. ID is null when the backend
// could not start a controllable playback.
type SpeakResponse struct {
	ID     *string `json:"id"`
	Status string  `json:"status,omitempty"`
}

// PrefRequest is the body of POST /prefs.
type PrefRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RememberRequest is the body of POST /memory/remember.
type RememberRequest struct {
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}

// Fact is a remembered long-term memory entry.
type Fact struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	Source    string `json:"source,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Snapshot bundles the facts and preferences the memory panel shows.
type Snapshot struct {
	Facts []Fact      `json:"facts"`
	Prefs Preferences `json:"prefs"`
}

// legacyMemory is returned by GET /memory.
type legacyMemory struct {
	LongTerm []Fact `json:"long_term"`
}

// errorBody is the error shape FastAPI returns. Detail is usually a string but
// validation failures carry a list.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (e errorBody) text() string {
	if len(e.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}
	return string(e.Detail)
}

// Float64Ptr returns a pointer to f. Convenience for building requests.
func Float64Ptr(f float64) *float64 { return &f }
