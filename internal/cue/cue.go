// Package cue plays short tones when capture starts and stops.
package cue

import (
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/logging"
)

const sampleRate = beep.SampleRate(44100)

const (
	toneLength = 90 * time.Millisecond
	volume     = 0.25
)

// Player plays capture cues on the default output device. A Player that
// fails to open the device stays silent.
type Player struct {
	enabled bool

	once    sync.Once
	initErr error
}

// New returns a player. When enabled is false every cue is a no-op.
func New(enabled bool) *Player {
	return &Player{enabled: enabled}
}

// Start plays the rising "listening" cue.
func (p *Player) Start() {
	p.play(Tone(660, toneLength), Tone(880, toneLength))
}

// Stop plays the falling "sending" cue.
func (p *Player) Stop() {
	p.play(Tone(880, toneLength), Tone(660, toneLength))
}

func (p *Player) play(s ...beep.Streamer) {
	if p == nil || !p.enabled {
		return
	}
	p.once.Do(func() {
		p.initErr = speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond))
		if p.initErr != nil {
			logging.Logger().Warn("audio cues disabled", "err", p.initErr)
		}
	})
	if p.initErr != nil {
		return
	}
	speaker.Play(beep.Seq(s...))
}

// Tone returns a sine tone of freq Hz lasting d, with a short linear fade at
// both ends.
func Tone(freq float64, d time.Duration) beep.Streamer {
	total := sampleRate.N(d)
	fade := sampleRate.N(5 * time.Millisecond)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			env := 1.0
			if pos < fade {
				env = float64(pos) / float64(fade)
			} else if left := total - pos; left < fade {
				env = float64(left) / float64(fade)
			}
			v := volume * env * math.Sin(2*math.Pi*freq*float64(pos)/float64(sampleRate))
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}
