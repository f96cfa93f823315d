package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Motor output backends
const (
	OutputLog  = "log"  // debug log only
	OutputMIDI = "midi" // drive an external synth per channel
)

// ControllerConfig defines a saved encoder controller
type ControllerConfig struct {
	PortName    string `json:"portName"` // substring of the input port name
	AutoConnect bool   `json:"autoConnect"`
}

// InputConfig maps controller messages onto the menu
type InputConfig struct {
	KnobCC   uint8 `json:"knobCC"`
	ButtonCC uint8 `json:"buttonCC"`
}

// MotorConfig describes the physical channels
type MotorConfig struct {
	Channels  int    `json:"channels"`
	MaxOctave int    `json:"maxOctave"`
	Output    string `json:"output"`
	PortName  string `json:"portName,omitempty"` // for OutputMIDI
}

// PlaybackConfig tunes parsing and scheduling
type PlaybackConfig struct {
	PolyphonyThreshold uint64 `json:"polyphonyThreshold"`
	ReleaseOnEnd       bool   `json:"releaseOnEnd"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	DebounceMillis int    `json:"debounceMillis"`
	LinesPerScreen int    `json:"linesPerScreen"`
	LastSelection  string `json:"lastSelection,omitempty"`
	Palette        string `json:"palette,omitempty"` // GPL palette file
}

// Config is the main configuration structure
type Config struct {
	MusicDir    string             `json:"musicDir"`
	Controllers []ControllerConfig `json:"controllers,omitempty"`
	Input       InputConfig        `json:"input"`
	Motors      MotorConfig        `json:"motors"`
	Playback    PlaybackConfig     `json:"playback"`
	UI          UIConfig           `json:"ui"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	musicDir := "Music"
	if home, err := os.UserHomeDir(); err == nil {
		musicDir = filepath.Join(home, "Music")
	}
	return &Config{
		MusicDir: musicDir,
		Input: InputConfig{
			KnobCC:   0x10,
			ButtonCC: 0x11,
		},
		Motors: MotorConfig{
			Channels:  4,
			MaxOctave: 5,
			Output:    OutputLog,
		},
		Playback: PlaybackConfig{
			PolyphonyThreshold: 250000,
			ReleaseOnEnd:       true,
		},
		UI: UIConfig{
			DebounceMillis: 250,
			LinesPerScreen: 8,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-stepper"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Fields missing from the file keep their
// defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects values the player cannot run with
func (c *Config) Validate() error {
	if c.Motors.Channels < 1 {
		return fmt.Errorf("motors.channels must be at least 1, got %d", c.Motors.Channels)
	}
	if c.Motors.MaxOctave < -1 {
		return fmt.Errorf("motors.maxOctave must be at least -1, got %d", c.Motors.MaxOctave)
	}
	switch c.Motors.Output {
	case OutputLog, OutputMIDI:
	default:
		return fmt.Errorf("motors.output must be %q or %q, got %q", OutputLog, OutputMIDI, c.Motors.Output)
	}
	if c.UI.LinesPerScreen < 1 {
		return fmt.Errorf("ui.linesPerScreen must be at least 1, got %d", c.UI.LinesPerScreen)
	}
	if c.UI.DebounceMillis < 0 {
		return fmt.Errorf("ui.debounceMillis must not be negative, got %d", c.UI.DebounceMillis)
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return c.SaveTo(filepath.Join(dir, "config.json"))
}

// SaveTo writes the config to path
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// FindController finds a controller config by port name
func (c *Config) FindController(portName string) *ControllerConfig {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == portName {
			return &c.Controllers[i]
		}
	}
	return nil
}

// AddController adds or updates a controller config
func (c *Config) AddController(ctrl ControllerConfig) {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == ctrl.PortName {
			c.Controllers[i] = ctrl
			return
		}
	}
	c.Controllers = append(c.Controllers, ctrl)
}

// AutoConnectPatterns returns the port names of controllers with
// autoConnect enabled
func (c *Config) AutoConnectPatterns() []string {
	var result []string
	for _, ctrl := range c.Controllers {
		if ctrl.AutoConnect {
			result = append(result, ctrl.PortName)
		}
	}
	return result
}
