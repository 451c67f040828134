package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/app"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/audio/mic"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/backend"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/config"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/cue"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/logging"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/memdb"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/voice"

	tea "github.com/charmbracelet/bubbletea"
)

// microphone adapts the portaudio recorder to the voice controller.
type microphone struct {
	rec *mic.Recorder
}

func (m microphone) Open() (voice.Recording, error) {
	c, err := m.rec.Start()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "ethereal:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	logFile, err := logging.Init(cfg.LogFile, logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer logFile.Close()

	log := logging.WithFields("component", "main")
	log.Info("starting", "backend", cfg.BackendURL, "view", cfg.StartView)

	opts := app.Options{
		Backend:    backend.NewClient(cfg.BackendURL, cfg.HTTPTimeout),
		Microphone: microphone{rec: mic.NewRecorder()},
		Cues:       cue.New(cfg.Cues),
		View:       cfg.StartView,
	}

	if cfg.MemoryDB != "" {
		store, err := memdb.Open(cfg.MemoryDB)
		if err != nil {
			log.Warn("local memory db unavailable", "path", cfg.MemoryDB, "err", err)
		} else {
			defer store.Close()
			opts.LocalMemory = store
		}
	}

	p := tea.NewProgram(app.New(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	log.Info("exiting")
	return nil
}
