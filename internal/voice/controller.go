// Package voice implements the voice interaction session: microphone
// capture, the transcribe/query/speak pipeline, the memory confirmation gate
// and playback control.
package voice

import (
	"context"
	"errors"
	"fmt"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/backend"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/logging"
)

// Mode is the interaction phase shown by the orb and the mic control.
type Mode int

const (
	Idle Mode = iota
	Listening
	Speaking
)

func (m Mode) String() string {
	switch m {
	case Listening:
		return "listening"
	case Speaking:
		return "speaking"
	}
	return "idle"
}

var (
	ErrBusy          = errors.New("voice session busy")
	ErrNotListening  = errors.New("not listening")
	ErrNoCandidate   = errors.New("no memory candidate pending")
	ErrDisallowed    = errors.New("memory candidate is not allowed")
	ErrAlreadyAccept = errors.New("memory candidate already accepted")
)

// Microphone opens audio captures.
type Microphone interface {
	Open() (Recording, error)
}

// Recording is an open capture. Finish releases the device and returns the
// captured audio; it must be safe to call more than once.
type Recording interface {
	Finish() ([]byte, error)
}

// Leveler is implemented by recordings that report an input level.
type Leveler interface {
	Level() float32
}

// Candidate is a spoken "remember" request awaiting the user's decision.
type Candidate struct {
	ID         int
	Text       string
	Disallowed string
}

// Acceptable reports whether the candidate may be saved.
func (c Candidate) Acceptable() bool { return c.Disallowed == "" }

// Controller owns the voice session state. It is not safe for concurrent
// use; the UI loop drives it from a single goroutine.
type Controller struct {
	mic     Microphone
	backend Backend

	mode Mode
	rec  Recording
	run  int

	transcript    string
	hasTranscript bool
	reply         string
	hasReply      bool
	lastFailure   string
	playbackID    string

	candidate    *Candidate
	candidateSeq int
	accepting    bool
	memoryStatus string
}

// NewController returns an idle controller.
func NewController(mic Microphone, be Backend) *Controller {
	return &Controller{mic: mic, backend: be}
}

func (c *Controller) Mode() Mode { return c.mode }
func (c *Controller) Transcript() (string, bool) { return c.transcript, c.hasTranscript }
func (c *Controller) Reply() (string, bool) { return c.reply, c.hasReply }
func (c *Controller) LastFailure() string { return c.lastFailure }
func (c *Controller) PlaybackID() string { return c.playbackID }
func (c *Controller) MemoryStatus() string { return c.memoryStatus }
func (c *Controller) Accepting() bool { return c.accepting }

// Candidate returns the pending memory candidate, if any.
func (c *Controller) Candidate() (Candidate, bool) {
	if c.candidate == nil {
		return Candidate{}, false
	}
	return *c.candidate, true
}

// Level returns the live input level while listening, else 0.
func (c *Controller) Level() float32 {
	if l, ok := c.rec.(Leveler); ok && c.mode == Listening {
		return l.Level()
	}
	return 0
}

// StartListening opens the microphone and moves Idle -> Listening. If the
// microphone cannot be opened the controller stays Idle.
func (c *Controller) StartListening() error {
	if c.mode != Idle {
		return ErrBusy
	}
	rec, err := c.mic.Open()
	if err != nil {
		logging.Logger().Error("microphone access failed", "err", err)
		return fmt.Errorf("open microphone: %w", err)
	}
	c.rec = rec
	c.mode = Listening
	return nil
}

// StopListening releases the capture, moves Listening -> Speaking and starts
// the pipeline on whatever audio was captured, even none. Feed the returned
// events to Apply; the final EventDone returns the controller to Idle.
func (c *Controller) StopListening(ctx context.Context, s Settings) (<-chan Event, error) {
	if c.mode != Listening {
		return nil, ErrNotListening
	}
	rec := c.rec
	c.rec = nil
	blob, err := rec.Finish()
	if err != nil {
		logging.Logger().Warn("finalize capture", "err", err, "bytes", len(blob))
	}

	c.run++
	c.mode = Speaking
	c.transcript, c.hasTranscript = "", false
	c.reply, c.hasReply = "", false
	c.lastFailure = ""
	return runPipeline(ctx, c.backend, c.run, blob, s), nil
}

// Apply folds a pipeline event into the session and reports whether it
// belonged to the current run. Events from runs superseded by Reset are
// ignored.
func (c *Controller) Apply(ev Event) bool {
	if ev.Run != c.run {
		return false
	}
	switch ev.Kind {
	case EventTranscribed:
		c.transcript, c.hasTranscript = ev.Transcription.Transcript, true
		if ev.Transcription.ContainsMemoryCommand {
			c.offer(ev.Transcription.Transcript, ev.Transcription.Reason())
		}
	case EventReplied:
		c.reply, c.hasReply = ev.Reply, true
	case EventPlayback:
		c.playbackID = ev.PlaybackID
	case EventFailed:
		c.lastFailure = ev.Step + " failed"
	case EventDone:
		if c.mode == Speaking {
			c.mode = Idle
		}
	}
	return true
}

// offer replaces any pending candidate; only one is pending at a time.
func (c *Controller) offer(text, disallowed string) {
	c.candidateSeq++
	c.candidate = &Candidate{ID: c.candidateSeq, Text: text, Disallowed: disallowed}
	c.accepting = false
	c.memoryStatus = ""
}

// AcceptCandidate marks the pending candidate accepted and returns it so the
// caller can submit it with source "voice". Call ResolveCandidate with the
// outcome, then ClearCandidate after the feedback delay.
func (c *Controller) AcceptCandidate() (Candidate, error) {
	if c.candidate == nil {
		return Candidate{}, ErrNoCandidate
	}
	if !c.candidate.Acceptable() {
		return Candidate{}, ErrDisallowed
	}
	if c.accepting {
		return Candidate{}, ErrAlreadyAccept
	}
	c.accepting = true
	return *c.candidate, nil
}

// ResolveCandidate records the result of saving candidate id.
func (c *Controller) ResolveCandidate(id int, err error) {
	if c.candidate == nil || c.candidate.ID != id {
		return
	}
	c.memoryStatus = RememberStatus(err)
}

// ClearCandidate drops candidate id and its status.
func (c *Controller) ClearCandidate(id int) {
	if c.candidate == nil || c.candidate.ID != id {
		return
	}
	c.candidate = nil
	c.accepting = false
	c.memoryStatus = ""
}

// DismissCandidate drops the pending candidate without saving it.
func (c *Controller) DismissCandidate() {
	c.candidate = nil
	c.accepting = false
	c.memoryStatus = ""
}

// SetPlayback records the playback id returned by a speak request. An empty
// id means nothing is playing.
func (c *Controller) SetPlayback(id string) {
	c.playbackID = id
}

// ClearPlayback forgets playback id if it is still current.
func (c *Controller) ClearPlayback(id string) {
	if c.playbackID == id {
		c.playbackID = ""
	}
}

// Reset releases any open capture and returns to a fresh idle session.
// Events still in flight from earlier runs are ignored afterwards.
func (c *Controller) Reset() {
	if c.rec != nil {
		if _, err := c.rec.Finish(); err != nil {
			logging.Logger().Warn("release capture", "err", err)
		}
		c.rec = nil
	}
	run := c.run + 1
	seq := c.candidateSeq
	*c = Controller{mic: c.mic, backend: c.backend, run: run, candidateSeq: seq}
}

// RememberStatus is the feedback text shown after a remember request.
func RememberStatus(err error) string {
	switch {
	case err == nil:
		return "Saved"
	case backend.IsTransport(err):
		return "Request failed"
	case backend.Detail(err) != "":
		return backend.Detail(err)
	}
	return "Failed"
}
