package app

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/backend"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/config"

	tea "github.com/charmbracelet/bubbletea"
)

// TestLiveChatFlow exercises the chat view against a running backend.
// Skipped if the backend isn't reachable.
func TestLiveChatFlow(t *testing.T) {
	baseURL := backend.NormalizeBaseURL(os.Getenv("ETHEREAL_BACKEND_URL"))
	client := backend.NewClient(baseURL, 30*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Preferences(ctx); backend.IsTransport(err) {
		t.Skip("backend not running at", baseURL)
	}

	m := New(Options{Backend: client, Microphone: &fakeMic{}, View: config.ViewChat})
	m, _ = applyUpdate(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	// Load preferences
	m, _ = applyUpdate(m, loadPrefsCmd(client, nil)())
	fmt.Printf("Preferences: mode=%s voice=%s\n", m.mode, m.voiceName)

	// Send a message and wait for the reply
	m.input.SetValue("hello")
	m, cmd := applyUpdate(m, key("enter"))
	m, _ = applyUpdate(m, cmd())

	msgs := m.chat.Messages()
	if len(msgs) != 3 {
		t.Fatalf("messages = %d, want 3", len(msgs))
	}
	fmt.Printf("Reply: %q\n", msgs[2].Content)

	// Open the memory panel
	m, _ = applyUpdate(m, key("tab"))
	m, cmd = applyUpdate(m, key("M"))
	m, _ = applyUpdate(m, cmd())
	fmt.Printf("Memory: %d facts, %d prefs (local=%v)\n", len(m.memory.Facts), len(m.memory.Prefs), m.memoryLocal)

	fmt.Println("=== Chat View ===")
	fmt.Println(m.View())
}
