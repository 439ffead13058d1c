// device_manager.go - MIDI device detection and configuration from YAML presets

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// ChannelConfig is one channel's voice setup from the device preset.
type ChannelConfig struct {
	BankMSB     uint8  `yaml:"bank_msb"`
	BankLSB     uint8  `yaml:"bank_lsb"`
	Program     uint8  `yaml:"program"`
	Description string `yaml:"description"`
}

// DeviceConfig describes one supported instrument: how to recognize it from
// its port name and how to set up its channels.
type DeviceConfig struct {
	Name             string                `yaml:"name"`
	Description      string                `yaml:"description"`
	DetectionStrings []string              `yaml:"detection_strings"`
	Channels         map[int]ChannelConfig `yaml:"channels"`
}

// ConnectionConfig tunes the device polling loop.
type ConnectionConfig struct {
	TimeoutIterations int `yaml:"timeout_iterations"`
	PollSleepSeconds  int `yaml:"poll_sleep_seconds"`
	MinPortCount      int `yaml:"min_port_count"`
	OutputPortIndex   int `yaml:"output_port_index"`
}

// DevicePresets is the root of the midi_devices.yaml file.
type DevicePresets struct {
	Version    string                  `yaml:"version"`
	Connection ConnectionConfig        `yaml:"connection"`
	Devices    map[string]DeviceConfig `yaml:"devices"`
}

// DeviceInfo is the result of connecting: the matched preset key, the
// port name and the opened port.
type DeviceInfo struct {
	Key      string
	PortName string
	Port     drivers.Out
}

var errNoPresets = errors.New("device configuration is required. No device configuration found.\n" +
	"Please ensure midi_devices.yaml is available in a standard location:\n" +
	"  ~/.config/midiplay/midi_devices.yaml (user-specific)\n" +
	"  /etc/midiplay/midi_devices.yaml (system-wide)\n" +
	"  ./midi_devices.yaml (local)")

// DeviceManager loads device presets and connects to whichever configured
// instrument is plugged in. Detection matches the port name against each
// preset's detection strings; a preset with no detection strings is the
// fallback.
type DeviceManager struct {
	driver  drivers.Driver
	presets DevicePresets
	loaded  bool
}

func NewDeviceManager(driver drivers.Driver) *DeviceManager {
	return &DeviceManager{driver: driver}
}

// LoadDevicePresets reads the YAML preset file. With an empty path the
// standard locations are searched in priority order.
func (dm *DeviceManager) LoadDevicePresets(configPath string) error {
	path := findConfigFile(configPath)
	if path == "" {
		return errNoPresets
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading device configuration %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &dm.presets); err != nil {
		return fmt.Errorf("parsing device configuration %s: %w", path, err)
	}

	dm.loaded = true
	logger.Debug("loaded device configuration", "path", path, "devices", len(dm.presets.Devices))
	msgPrinter.Printf("Loaded device configuration from: %s\n", path)
	return nil
}

// findConfigFile resolves the preset file path: an explicit path wins, then
// the user config dir, the system dir, and the working directory.
func findConfigFile(specified string) string {
	if specified != "" {
		if fileExists(specified) {
			return specified
		}
		return ""
	}

	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "midiplay", "midi_devices.yaml"))
	}
	candidates = append(candidates,
		"/etc/midiplay/midi_devices.yaml",
		"midi_devices.yaml")

	for _, c := range candidates {
		if fileExists(c) {
			return c
		}
	}
	return ""
}

// ConnectAndDetectDevice waits for an instrument to appear, opens its port
// and identifies which preset it matches.
func (dm *DeviceManager) ConnectAndDetectDevice() (DeviceInfo, error) {
	if !dm.loaded {
		return DeviceInfo{}, errNoPresets
	}

	port, err := dm.waitForDeviceConnection()
	if err != nil {
		return DeviceInfo{}, err
	}
	if err := port.Open(); err != nil {
		return DeviceInfo{}, fmt.Errorf("opening MIDI port %s: %w", port.String(), err)
	}

	name := port.String()
	return DeviceInfo{
		Key:      dm.detectDeviceKey(name),
		PortName: name,
		Port:     port,
	}, nil
}

// waitForDeviceConnection polls the driver's port list until the configured
// output port exists or the timeout elapses. The "connect a device" prompt
// is only printed on an interactive terminal.
func (dm *DeviceManager) waitForDeviceConnection() (drivers.Out, error) {
	conn := dm.presets.Connection
	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	for i := 0; ; i++ {
		outs, err := dm.driver.Outs()
		if err != nil {
			return nil, fmt.Errorf("listing MIDI ports: %w", err)
		}

		if len(outs) >= conn.MinPortCount {
			idx := conn.OutputPortIndex
			if idx < 0 || idx >= len(outs) {
				return nil, fmt.Errorf("configured output port %d not available (%d ports)", idx, len(outs))
			}
			return outs[idx], nil
		}

		if i >= conn.TimeoutIterations {
			return nil, errors.New("device connection timeout. No device found. Connect a MIDI device and try again.")
		}

		if interactive {
			msgPrinter.Println(msgPrinter.Sprintf("No device connected. Connect a device."))
		}
		time.Sleep(time.Duration(conn.PollSleepSeconds) * time.Second)
	}
}

// detectDeviceKey matches a port name against the presets. Detection strings
// are prefixes; a preset with none acts as the fallback.
func (dm *DeviceManager) detectDeviceKey(portName string) string {
	for key, cfg := range dm.presets.Devices {
		for _, det := range cfg.DetectionStrings {
			if det != "" && strings.HasPrefix(portName, det) {
				return key
			}
		}
	}
	for key, cfg := range dm.presets.Devices {
		if len(cfg.DetectionStrings) == 0 {
			return key
		}
	}
	return ""
}

// DeviceName returns the display name of a preset, or a generic fallback.
func (dm *DeviceManager) DeviceName(key string) string {
	if cfg, ok := dm.presets.Devices[key]; ok && cfg.Name != "" {
		return cfg.Name
	}
	return "Unknown device"
}

// ConfigureDevice sends each configured channel's bank select and program
// change to the port. Channel numbers in the preset are 1-based.
func (dm *DeviceManager) ConfigureDevice(key string, out OutputPort) error {
	cfg, ok := dm.presets.Devices[key]
	if !ok {
		return fmt.Errorf("no device preset for %q", key)
	}

	nums := make([]int, 0, len(cfg.Channels))
	for num := range cfg.Channels {
		nums = append(nums, num)
	}
	sort.Ints(nums)

	for _, num := range nums {
		ch := cfg.Channels[num]
		midiCh := uint8(num - 1)

		if ch.BankMSB != 0 {
			if err := out.Send(midi.ControlChange(midiCh, ccBankSelectMSB, ch.BankMSB).Bytes()); err != nil {
				return fmt.Errorf("channel %d bank select MSB: %w", num, err)
			}
		}
		if ch.BankLSB != 0 {
			if err := out.Send(midi.ControlChange(midiCh, ccBankSelectLSB, ch.BankLSB).Bytes()); err != nil {
				return fmt.Errorf("channel %d bank select LSB: %w", num, err)
			}
		}
		if err := out.Send(midi.ProgramChange(midiCh, ch.Program).Bytes()); err != nil {
			return fmt.Errorf("channel %d program change: %w", num, err)
		}

		msgPrinter.Printf("  Channel %d: %s (Bank %d:%d, Program %d)\n",
			num, ch.Description, ch.BankMSB, ch.BankLSB, ch.Program)
	}
	return nil
}

// Presets exposes the parsed configuration.
func (dm *DeviceManager) Presets() DevicePresets { return dm.presets }
