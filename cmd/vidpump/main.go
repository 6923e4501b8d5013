// Package main provides the CLI entry point for vidpump.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/user/vidpump/pkg/adapters/logger"
	"github.com/user/vidpump/pkg/adapters/mp4demux"
	"github.com/user/vidpump/pkg/adapters/mp4mux"
	"github.com/user/vidpump/pkg/adapters/nullsink"
	"github.com/user/vidpump/pkg/adapters/osfilesystem"
	"github.com/user/vidpump/pkg/config"
	"github.com/user/vidpump/pkg/media"
	"github.com/user/vidpump/pkg/ports"
	"github.com/user/vidpump/pkg/transcode"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Transcode TranscodeCmd `cmd:"" help:"Transcode a video file, fixing capture orientation."`
	Version   VersionCmd   `cmd:"" help:"Show version information."`
}

// TranscodeCmd defines the transcode subcommand.
type TranscodeCmd struct {
	// Required arguments
	Source string `arg:"" help:"Source MP4 file path."`
	Output string `short:"o" required:"" help:"Destination MP4 file path."`

	// Config file
	Config string `short:"c" help:"YAML config file path."`

	// Output geometry
	Width  *int    `short:"W" help:"Output video width (default: source width)."`
	Height *int    `short:"H" help:"Output video height (default: source height)."`
	Orient *string `help:"Orientation override: identity, front, back, or EXIF code 1-8."`

	// Encoding options (pass-through to the sink)
	VideoBitrate     *int    `help:"Video bitrate in bits per second."`
	KeyFrameInterval *int    `help:"Frames between sync samples."`
	Profile          *string `help:"Encoder profile (baseline, main, high)."`
	AudioSampleRate  *int    `help:"Audio sample rate in Hz."`
	AudioBitrate     *int    `help:"Audio bitrate in bits per second."`

	// Pump behavior
	IdleYieldMs *int `help:"Sleep in milliseconds when no sink is ready."`
	DryRun      bool `help:"Run the pipeline but discard the output."`

	// Logging options
	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("vidpump"),
		kong.Description("Offline video transcoder with orientation correction."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes the transcode command.
func (cmd *TranscodeCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}

	var log ports.Logger
	if cmd.Quiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cmd.LogLevel))
	}

	fs := osfilesystem.New()

	t := transcode.New(transcode.Options{
		OpenSource: func(location string) (ports.Source, error) {
			return mp4demux.Open(location, fs, log)
		},
		OpenSink: func(location string) (ports.Sink, error) {
			if cmd.DryRun {
				return nullsink.New(), nil
			}
			return mp4mux.NewSink(location, fs, log), nil
		},
		Logger:    log,
		IdleYield: time.Duration(cfg.IdleYieldMs) * time.Millisecond,
	})

	req, err := buildRequest(cfg, log)
	if err != nil {
		return err
	}

	log.Info("Transcoding %s to %s", cmd.Source, cmd.Output)

	outcomeCh := make(chan transcode.Outcome, 1)
	req.OnOutcome = func(o transcode.Outcome) { outcomeCh <- o }

	handle := t.Transcode(req)

	// First interrupt cancels cooperatively; the transcode resolves
	// with a Cancelled outcome within one loop iteration.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Interrupted, cancelling...")
		handle.Cancel()
	}()

	outcome := <-outcomeCh
	switch outcome.Kind {
	case transcode.OutcomeSuccess:
		return nil
	case transcode.OutcomeCancelled:
		os.Exit(130)
		return nil
	default:
		return outcome.Err
	}
}

// buildConfig layers CLI overrides over the config file and defaults.
func (cmd *TranscodeCmd) buildConfig() (config.Config, error) {
	cfg := config.Defaults()
	if cmd.Config != "" {
		loaded, err := config.LoadFromFile(cmd.Config)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	cfg.Source = cmd.Source
	cfg.Destination = cmd.Output

	if cmd.Width != nil {
		cfg.TargetWidth = *cmd.Width
	}
	if cmd.Height != nil {
		cfg.TargetHeight = *cmd.Height
	}
	if cmd.Orient != nil {
		cfg.Orientation = *cmd.Orient
	}
	if cmd.VideoBitrate != nil {
		cfg.Encode.VideoBitrate = *cmd.VideoBitrate
	}
	if cmd.KeyFrameInterval != nil {
		cfg.Encode.KeyFrameInterval = *cmd.KeyFrameInterval
	}
	if cmd.Profile != nil {
		cfg.Encode.Profile = *cmd.Profile
	}
	if cmd.AudioSampleRate != nil {
		cfg.Encode.AudioSampleRate = *cmd.AudioSampleRate
	}
	if cmd.AudioBitrate != nil {
		cfg.Encode.AudioBitrate = *cmd.AudioBitrate
	}
	if cmd.IdleYieldMs != nil {
		cfg.IdleYieldMs = *cmd.IdleYieldMs
	}

	if (cfg.TargetWidth > 0) != (cfg.TargetHeight > 0) {
		return cfg, errors.New("width and height must be set together")
	}
	return cfg, nil
}

// buildRequest converts config into a transcode request.
func buildRequest(cfg config.Config, log ports.Logger) (transcode.Request, error) {
	req := transcode.Request{
		Source:      cfg.Source,
		Destination: cfg.Destination,
		Encode:      cfg.Encode,
	}

	if cfg.TargetWidth > 0 && cfg.TargetHeight > 0 {
		req.TargetSize = &media.Size{Width: cfg.TargetWidth, Height: cfg.TargetHeight}
	}

	if cfg.Orientation != "" {
		orient, err := media.ParseOrientation(cfg.Orientation)
		if err != nil {
			return req, err
		}
		req.Orientation = &orient
	}

	req.Progress = &transcode.ProgressObserver{
		Executor: ports.GoExecutor{},
		Fn: func(completed, total int64) {
			log.Debug("Progress: %d/%d frames", completed, total)
		},
	}
	return req, nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Printf("vidpump %s\n", version)
	return nil
}
