package voice

import (
	"context"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/backend"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/logging"
)

// UploadFilename is the multipart filename captured audio is sent under.
const UploadFilename = "input.wav"

// Backend is the subset of the backend client the voice pipeline uses.
type Backend interface {
	SpeechToText(ctx context.Context, audio []byte, filename string) (backend.Transcription, error)
	Query(ctx context.Context, req backend.QueryRequest) (string, error)
	Speak(ctx context.Context, req backend.SpeakRequest) (string, error)
}

// EventKind identifies a pipeline step result.
type EventKind int

const (
	EventTranscribed EventKind = iota
	EventReplied
	EventPlayback
	EventFailed
	EventDone
)

// Event is one step result streamed from a pipeline run. Every run ends
// with exactly one EventDone.
type Event struct {
	Run           int
	Kind          EventKind
	Transcription backend.Transcription
	Reply         string
	PlaybackID    string
	Step          string // failed step, for EventFailed
	Err           error
}

// Settings carries the preferences a run is submitted with.
type Settings struct {
	Mode  string
	Voice string
}

// maxEvents is the most a run can emit, so sends never block.
const maxEvents = 4

// runPipeline transcribes blob, queries the assistant with the transcript
// and asks the backend to speak the reply, strictly in that order. Failures
// end the run early; the returned channel always delivers EventDone and is
// then closed.
func runPipeline(ctx context.Context, be Backend, run int, blob []byte, s Settings) <-chan Event {
	ch := make(chan Event, maxEvents)
	log := logging.WithFields("component", "voice", "run", run)

	go func() {
		defer close(ch)
		defer func() { ch <- Event{Run: run, Kind: EventDone} }()

		fail := func(step string, err error) {
			log.Error("voice pipeline step failed", "step", step, "err", err)
			ch <- Event{Run: run, Kind: EventFailed, Step: step, Err: err}
		}

		tr, err := be.SpeechToText(ctx, blob, UploadFilename)
		if err != nil {
			fail("transcribe", err)
			return
		}
		ch <- Event{Run: run, Kind: EventTranscribed, Transcription: tr}

		reply, err := be.Query(ctx, backend.QueryRequest{
			Input:  tr.Transcript,
			Mode:   s.Mode,
			Source: backend.SourceVoice,
		})
		if err != nil {
			fail("query", err)
			return
		}
		ch <- Event{Run: run, Kind: EventReplied, Reply: reply}

		id, err := be.Speak(ctx, backend.SpeakRequest{
			Text:   reply,
			Voice:  VoiceModel(s.Voice),
			Volume: backend.Float64Ptr(1.0),
		})
		if err != nil {
			fail("speak", err)
			return
		}
		ch <- Event{Run: run, Kind: EventPlayback, PlaybackID: id}
		log.Debug("voice pipeline complete", "playback", id)
	}()

	return ch
}
