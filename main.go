// main.go - Main entry point for the hymn playback command

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts := NewOptions()
	if err := opts.Parse(args); err != nil {
		if errors.Is(err, errVersionRequested) || errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	initI18n()
	initLogger(opts.IsVerbose())

	timing := NewTimingManager()
	timing.StartTimer()

	drv, err := rtmididrv.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening MIDI driver: %v\n", err)
		return 1
	}
	defer drv.Close()

	devices := NewDeviceManager(drv)
	if err := devices.LoadDevicePresets(opts.StopsFile()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitDeviceNotFound
	}

	info, err := devices.ConnectAndDetectDevice()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitDeviceNotFound
	}
	defer info.Port.Close()

	logger.Debug("connected MIDI device", "port", info.PortName, "preset", info.Key)
	msgPrinter.Printf("Connected to %s\n", devices.DeviceName(info.Key))

	if err := devices.ConfigureDevice(info.Key, info.Port); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitDeviceNotFound
	}

	loader := NewMidiLoader()
	if !loader.LoadFile(opts.ResolvePath(), opts) {
		return exitFileNotFound
	}
	if url := opts.URLName(); url != "" {
		logger.Debug("hymn reference", "url", url)
	}

	player := NewSyncPlayer(info.Port)
	player.SetTracks(loader.Tracks(), loader.PPQ(), loader.UsecPerTick())

	synchronizer := NewPlaybackSynchronizer()

	signals := NewSignalHandler(info.Port, synchronizer, timing)
	signals.Setup()

	orchestrator := NewPlaybackOrchestrator(player, synchronizer, loader)
	orchestrator.StateMachine().SetDisplayWarnings(opts.DisplayWarnings())
	orchestrator.Initialize()
	orchestrator.DisplayPlaybackInfo()
	orchestrator.ExecutePlayback()

	timing.EndTimer()
	timing.DisplayElapsedTime()

	return 0
}
