package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-stepper/config"
	"go-stepper/debug"
	"go-stepper/input"
	"go-stepper/midi"
	"go-stepper/midifile"
	"go-stepper/motor"
	"go-stepper/sequencer"
	"go-stepper/theme"
	"go-stepper/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "play" {
		err = playHeadless(cfg, args[1:])
	} else {
		err = runTUI(cfg)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// openMotors builds the output chain: backend, debug log, UI monitor.
func openMotors(cfg *config.Config) (*motor.Monitor, func() error, error) {
	var backend motor.Motor
	closer := func() error { return nil }

	switch cfg.Motors.Output {
	case config.OutputMIDI:
		port, err := motor.OpenMIDIPort(cfg.Motors.PortName, cfg.Motors.Channels)
		if err != nil {
			return nil, nil, err
		}
		backend, closer = motor.NewLogged(port), port.Close
	default:
		backend = motor.NewLogged(nil)
	}
	return motor.NewMonitor(backend, cfg.Motors.Channels), closer, nil
}

func newPlayer(cfg *config.Config, m motor.Motor) *sequencer.Player {
	player := sequencer.NewPlayer(m, cfg.Motors.Channels, midifile.Options{
		PolyphonyThreshold: cfg.Playback.PolyphonyThreshold,
		MaxOctave:          cfg.Motors.MaxOctave,
	})
	player.Scheduler().ReleaseOnEnd = cfg.Playback.ReleaseOnEnd
	return player
}

// playHeadless plays one file to completion or until interrupted.
// Usage: play [-v] <file>
func playHeadless(cfg *config.Config, args []string) error {
	if len(args) > 0 && args[0] == "-v" {
		debug.EnableWriter(os.Stderr)
		args = args[1:]
	}
	if len(args) != 1 {
		return errors.New("usage: go-stepper play [-v] <file>")
	}
	path := args[0]

	mon, closer, err := openMotors(cfg)
	if err != nil {
		return err
	}
	defer closer()
	player := newPlayer(cfg, mon)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	err = player.PlayReader(filepath.Base(path), f)
	f.Close()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		player.Stop()
	}()

	start := time.Now()
	if err := player.Wait(); err != nil {
		return err
	}
	_, _, stats, _ := player.State()
	fmt.Printf("%s: %d notes, %d dropped, %s\n", filepath.Base(path), stats.Drives, stats.Dropped, time.Since(start).Round(time.Millisecond))
	return nil
}

func runTUI(cfg *config.Config) error {
	if err := debug.Enable(); err != nil {
		fmt.Printf("Warning: debug log unavailable: %v\n", err)
	}
	defer debug.Disable()

	// Load theme
	var palette *theme.Palette
	if cfg.UI.Palette != "" {
		p, err := theme.LoadGPL(cfg.UI.Palette)
		if err != nil {
			debug.Warn("tui", "palette: %v", err)
		} else {
			palette = p
		}
	}
	th := theme.New(palette)

	if info, err := os.Stat(cfg.MusicDir); err != nil || !info.IsDir() {
		return fmt.Errorf("music directory %s not found", cfg.MusicDir)
	}

	mon, closer, err := openMotors(cfg)
	if err != nil {
		return err
	}
	defer closer()
	player := newPlayer(cfg, mon)

	// Encoder state shared by the MIDI listener goroutines and the UI
	state := input.NewState(cfg.UI.LinesPerScreen, time.Duration(cfg.UI.DebounceMillis)*time.Millisecond)
	mapping := midi.Mapping{KnobCC: cfg.Input.KnobCC, ButtonCC: cfg.Input.ButtonCC}
	deviceMgr := midi.NewDeviceManager(cfg.AutoConnectPatterns(), mapping, state)

	// Start device manager in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)

	m, err := tui.NewModel(os.DirFS(cfg.MusicDir), player, mon, deviceMgr, state, th, cfg.UI.LastSelection)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())

	final, err := p.Run()
	player.Stop()
	if err != nil {
		return err
	}

	if last := final.(tui.Model).LastPlayed(); last != "" {
		cfg.UI.LastSelection = last
		if err := cfg.Save(); err != nil {
			debug.Warn("tui", "save config: %v", err)
		}
	}
	return nil
}
