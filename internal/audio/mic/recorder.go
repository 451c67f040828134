// Package mic captures microphone input with PortAudio.
package mic

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/audio"
)

const (
	frameSize = 1024
	// MaxDuration caps a single capture; later audio is dropped.
	MaxDuration = 2 * time.Minute
)

// Recorder opens microphone captures on the default input device.
type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

// Capture is one open microphone stream. Finish releases it.
type Capture struct {
	stream  *portaudio.Stream
	buf     []float32
	samples []float32
	level   atomic.Uint32 // float32 bits of the last frame RMS

	stop chan struct{}
	done chan struct{}
	err  error

	once    sync.Once
	blob    []byte
	blobErr error
}

// Start initializes PortAudio and begins reading the default input device.
// Each Capture holds its own PortAudio reference, dropped by Finish.
func (r *Recorder) Start() (*Capture, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("init portaudio: %w", err)
	}

	c := &Capture{
		buf:     make([]float32, frameSize),
		samples: make([]float32, 0, audio.SampleRate*5),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(audio.SampleRate), len(c.buf), c.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start input stream: %w", err)
	}
	c.stream = stream

	go c.loop()
	return c, nil
}

func (c *Capture) loop() {
	defer close(c.done)
	maxSamples := int(MaxDuration.Seconds()) * audio.SampleRate

	for {
		select {
		case <-c.stop:
			return
		default:
		}

		if err := c.stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				continue
			}
			c.err = fmt.Errorf("read input stream: %w", err)
			return
		}

		c.level.Store(math.Float32bits(audio.RMS(c.buf)))
		if len(c.samples) < maxSamples {
			c.samples = append(c.samples, c.buf...)
		}
	}
}

// Level returns the RMS level of the most recent frame, roughly 0..1.
func (c *Capture) Level() float32 {
	return math.Float32frombits(c.level.Load())
}

// Finish stops the stream, releases the device and returns the captured
// audio as WAV. It is safe to call more than once; later calls return the
// first result. An empty capture still yields a valid (empty) WAV.
func (c *Capture) Finish() ([]byte, error) {
	c.once.Do(func() {
		close(c.stop)
		<-c.done

		stopErr := c.stream.Stop()
		closeErr := c.stream.Close()
		portaudio.Terminate()

		blob, err := audio.EncodeWAV(c.samples, audio.SampleRate)
		c.blob = blob
		c.blobErr = errors.Join(c.err, err)
		if c.blobErr == nil && stopErr != nil {
			c.blobErr = fmt.Errorf("stop input stream: %w", stopErr)
		}
		if c.blobErr == nil && closeErr != nil {
			c.blobErr = fmt.Errorf("close input stream: %w", closeErr)
		}
	})
	return c.blob, c.blobErr
}

