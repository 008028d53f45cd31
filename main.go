package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbletea"

	"wodtimer/internal"
	"wodtimer/internal/config"
)

var configPath = flag.String("c", "", "Path to configuration file (defaults to ./config.yaml, ~/.config/wodtimer/config.yaml)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	m, err := internal.NewModel(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Render pump only; the session owns the timing clock. Faster than
	// 1 Hz so the pre-start countdown never skips a number on screen.
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				p.Send(internal.MsgTick{})
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
