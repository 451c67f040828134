// Package chat holds the typed conversation with the assistant.
package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/backend"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Texts shown in place of a reply.
const (
	Greeting          = "Hello! How can I help you today?"
	NetworkErrorReply = "Network error: couldn't reach backend."
	FailedReply       = "Sorry, I couldn't process your request."
)

// Message is one entry of the transcript. Messages are never edited.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}

// Session is an append-only transcript. The zero value is not usable; call
// NewSession.
type Session struct {
	messages []Message
	lastSent string
	now      func() time.Time
}

// NewSession returns a transcript seeded with the assistant greeting.
func NewSession() *Session {
	return newSession(time.Now)
}

func newSession(now func() time.Time) *Session {
	s := &Session{now: now}
	s.add(RoleAssistant, Greeting)
	return s
}

func (s *Session) add(role Role, content string) Message {
	m := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	}
	s.messages = append(s.messages, m)
	return m
}

// Messages returns the transcript in display order.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages.
func (s *Session) Len() int { return len(s.messages) }

// At returns message i.
func (s *Session) At(i int) (Message, bool) {
	if i < 0 || i >= len(s.messages) {
		return Message{}, false
	}
	return s.messages[i], true
}

// Send appends text as a user message and returns the query to submit.
// Blank input is ignored and reports false.
func (s *Session) Send(text, mode string) (backend.QueryRequest, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return backend.QueryRequest{}, false
	}
	s.add(RoleUser, text)
	s.lastSent = text
	return backend.QueryRequest{Input: text, Mode: mode}, true
}

// Resolve appends the assistant message for a finished query. Every Send is
// answered by exactly one Resolve.
func (s *Session) Resolve(reply string, err error) Message {
	switch {
	case err != nil && backend.IsTransport(err):
		return s.add(RoleAssistant, NetworkErrorReply)
	case err != nil, strings.TrimSpace(reply) == "":
		return s.add(RoleAssistant, FailedReply)
	}
	return s.add(RoleAssistant, reply)
}

// LastSent returns the most recent user text not yet remembered.
func (s *Session) LastSent() string { return s.lastSent }

// RememberThis picks the content for the "remember this" action: the
// selected message if any, else the last sent text. Picking consumes the
// last sent text.
func (s *Session) RememberThis(selected int) (string, bool) {
	content := s.lastSent
	if m, ok := s.At(selected); ok {
		content = m.Content
	}
	if content == "" {
		return "", false
	}
	s.lastSent = ""
	return content, true
}
