package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/ballet-labs/vacballet/internal/cliconfig"
	"github.com/ballet-labs/vacballet/internal/domain"
	"github.com/ballet-labs/vacballet/internal/pattern"
	"github.com/ballet-labs/vacballet/internal/preview"
	"github.com/ballet-labs/vacballet/internal/watch"
	"github.com/ballet-labs/vacballet/pkg/ballet"
	"github.com/ballet-labs/vacballet/pkg/log"
)

const helpDescription = `
Make your robot vacuum dance.

vacballet generates geometric waypoint routines (circle, square, figure
eight, Lissajous, crazy spin) and drives the vacuum through them with
absolute goto commands, confirming progress over the device's telemetry.

Credentials come from flags, VACBALLET_* environment variables, a .env
file, or ~/.vacballet/config.toml.
`

var exampleUsage = strings.TrimSpace(`
  vacballet devices
  vacballet dance circle 800 600
  vacballet dance spin --encore
  vacballet goto 1500 -2000
  vacballet plot eight 900 -o eight.png
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	var (
		cfgPath string
		envFile string
		encore  bool
		plotOut string
	)

	cfg := cliconfig.DefaultConfig()

	root := &cobra.Command{
		Use:     "vacballet",
		Short:   "Make your robot vacuum dance",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cliconfig.LoadDotenv(envFile); err != nil {
				return fmt.Errorf("load env file: %w", err)
			}
			return loadConfig(cmd, &cfg, cfgPath)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.vacballet/config.toml)")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "path to .env file with credentials (default: ./.env)")
	root.PersistentFlags().StringVar(&cfg.Email, "email", cfg.Email, "cloud account email")
	root.PersistentFlags().StringVar(&cfg.Password, "password", cfg.Password, "cloud account password")
	root.PersistentFlags().StringVar(&cfg.DeviceID, "device", cfg.DeviceID, "target device id (default: first on account)")
	root.PersistentFlags().StringVar(&cfg.Broker, "broker", cfg.Broker, "device MQTT endpoint host:port (skips cloud discovery)")
	root.PersistentFlags().StringVar(&cfg.ServiceURL, "service-url", cfg.ServiceURL, "cloud API base URL")
	root.PersistentFlags().StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for persisted telemetry state")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := root.PersistentFlags().MarkHidden("service-url"); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	root.PersistentFlags().IntVar(&cfg.MinRadiusMM, "min-radius", cfg.MinRadiusMM, "minimum dance radius in mm")
	root.PersistentFlags().IntVar(&cfg.MaxRadiusMM, "max-radius", cfg.MaxRadiusMM, "maximum dance radius in mm")
	root.PersistentFlags().IntVar(&cfg.DockBufferMM, "dock-buffer", cfg.DockBufferMM, "origin offset from the dock in mm")
	root.PersistentFlags().IntVar(&cfg.ArrivalThresholdMM, "arrival-threshold", cfg.ArrivalThresholdMM, "arrival distance threshold in mm")
	root.PersistentFlags().IntVar(&cfg.DanceSizeMM, "size", cfg.DanceSizeMM, "default dance size in mm")
	root.PersistentFlags().IntVar(&cfg.BeatMS, "beat", cfg.BeatMS, "default beat between waypoints in ms")
	root.PersistentFlags().IntVar(&cfg.CenterX, "center-x", cfg.CenterX, "fallback origin X in mm")
	root.PersistentFlags().IntVar(&cfg.CenterY, "center-y", cfg.CenterY, "fallback origin Y in mm")
	root.PersistentFlags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "cloud/channel timeout")
	root.PersistentFlags().DurationVar(&cfg.WaypointTimeout, "waypoint-timeout", cfg.WaypointTimeout, "arrival poll timeout per waypoint")
	root.PersistentFlags().DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "telemetry poll interval")
	root.PersistentFlags().DurationVar(&cfg.StartSettle, "start-settle", cfg.StartSettle, "preflight settle after start")
	root.PersistentFlags().DurationVar(&cfg.PauseSettle, "pause-settle", cfg.PauseSettle, "preflight settle after pause")
	root.PersistentFlags().DurationVar(&cfg.PostArrivalSettle, "arrival-settle", cfg.PostArrivalSettle, "settle after confirmed arrival")
	root.PersistentFlags().BoolVar(&cfg.Preflight, "preflight", cfg.Preflight, "run the wake/start/pause sequence before the first goto")

	danceCmd := &cobra.Command{
		Use:   "dance <pattern> [size-mm] [beat-ms]",
		Short: "Dance a waypoint pattern (" + strings.Join(pattern.Names(), ", ") + ")",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !pattern.Known(name) {
				return fmt.Errorf("%w: %q (choose from %s)", domain.ErrUnknownPattern, name, strings.Join(pattern.Names(), ", "))
			}
			size, beat, err := sizeAndBeat(cfg, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if !encore {
				b, _, err := buildBallet(cfg)
				if err != nil {
					return err
				}
				return b.Dance(ctx, name, size, beat)
			}
			return danceEncore(ctx, cmd, &cfg, cfgPath, name, size, beat)
		},
	}
	danceCmd.Flags().BoolVar(&encore, "encore", false, "repeat the routine until interrupted, reloading config between repeats")
	root.AddCommand(danceCmd)

	root.AddCommand(&cobra.Command{
		Use:   "goto <x-mm> <y-mm>",
		Short: "Send the vacuum to an absolute map position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parse x: %w", err)
			}
			y, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("parse y: %w", err)
			}
			b, _, err := buildBallet(cfg)
			if err != nil {
				return err
			}
			return b.Goto(cmd.Context(), x, y)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Start a cleaning run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := buildBallet(cfg)
			if err != nil {
				return err
			}
			return b.Clean(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "dock",
		Short: "Send the vacuum back to its charger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := buildBallet(cfg)
			if err != nil {
				return err
			}
			return b.Dock(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print device state and battery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := buildBallet(cfg)
			if err != nil {
				return err
			}
			snap, err := b.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatStatus(snap))
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "devices",
		Short: "List the account's devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := buildBallet(cfg)
			if err != nil {
				return err
			}
			devices, err := b.Devices(cmd.Context())
			if err != nil {
				return err
			}
			for _, d := range devices {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%s)\n", d.ID, d.Name, d.Model)
			}
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "beep [times]",
		Short: "Ask the vacuum to announce itself",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			times := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("parse times: %w", err)
				}
				times = n
			}
			b, _, err := buildBallet(cfg)
			if err != nil {
				return err
			}
			if err := b.FindMe(cmd.Context(), times); err != nil {
				return err
			}
			for i := 0; i < times; i++ {
				fmt.Fprintln(cmd.OutOrStdout(), "beep")
			}
			return nil
		},
	})

	plotCmd := &cobra.Command{
		Use:   "plot <pattern> [size-mm]",
		Short: "Render a pattern's waypoint path to a PNG, no device needed",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			size := cfg.DanceSizeMM
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("parse size: %w", err)
				}
				size = n
			}
			b, _, err := buildBallet(cfg)
			if err != nil {
				return err
			}
			seq, err := b.Plan(name, size)
			if err != nil {
				return err
			}
			out := plotOut
			if out == "" {
				out = name + ".png"
			}
			if err := preview.Render(seq, name, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d waypoints)\n", out, len(seq))
			return nil
		},
	}
	plotCmd.Flags().StringVarP(&plotOut, "out", "o", "", "output PNG path (default: <pattern>.png)")
	root.AddCommand(plotCmd)

	if err := root.Execute(); err != nil {
		logger := cliconfig.Logger(cfg.LogLevel)
		logger.Error().Err(err).Msg("vacballet")
		os.Exit(1)
	}
}

// loadConfig applies the file and environment layers under any explicitly
// set flags: flags > env > file > defaults.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}

	return cfg.Validate()
}

// buildBallet converts the CLI config into a library instance with a
// zerolog-backed logger.
func buildBallet(cfg cliconfig.Config) (*ballet.Ballet, log.Logger, error) {
	logger := log.NewZerologAdapterWithLogger(cliconfig.Logger(cfg.LogLevel))

	b, err := ballet.New(ballet.Config{
		Email:              cfg.Email,
		Password:           cfg.Password,
		DeviceID:           cfg.DeviceID,
		Broker:             cfg.Broker,
		ServiceURL:         cfg.ServiceURL,
		HTTPTimeout:        cfg.HTTPTimeout,
		MinRadiusMM:        cfg.MinRadiusMM,
		MaxRadiusMM:        cfg.MaxRadiusMM,
		DockBufferMM:       cfg.DockBufferMM,
		ArrivalThresholdMM: cfg.ArrivalThresholdMM,
		WaypointTimeout:    cfg.WaypointTimeout,
		PollInterval:       cfg.PollInterval,
		StartSettle:        cfg.StartSettle,
		PauseSettle:        cfg.PauseSettle,
		PostArrivalSettle:  cfg.PostArrivalSettle,
		DisablePreflight:   !cfg.Preflight,
		FallbackCenter:     cfg.FallbackCenter(),
		StateDir:           cfg.StateDir,
	}, ballet.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return b, logger, nil
}

// danceEncore repeats the routine until the context is canceled, reloading
// the config file between repeats when it changed on disk.
func danceEncore(ctx context.Context, cmd *cobra.Command, cfg *cliconfig.Config, cfgPath, name string, size, beat int) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	b, logger, err := buildBallet(*cfg)
	if err != nil {
		return err
	}

	var watcher *watch.Watcher
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		watcher, err = watch.New(cfgFile, logger)
		if err != nil {
			logger.Warn("config watcher unavailable", log.Err(err))
		} else {
			defer watcher.Close()
		}
	}

	for {
		if err := b.Dance(ctx, name, size, beat); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if watcher != nil {
			select {
			case <-watcher.Changed():
				logger.Info("config changed, reloading")
				fresh := cliconfig.DefaultConfig()
				if err := loadConfig(cmd, &fresh, cfgPath); err != nil {
					logger.Warn("config reload failed, keeping previous", log.Err(err))
					break
				}
				*cfg = fresh
				size, beat = cfg.DanceSizeMM, cfg.BeatMS
				if b, logger, err = buildBallet(*cfg); err != nil {
					return err
				}
			default:
			}
		}
	}
}

// sizeAndBeat resolves the dance size and beat from positional args,
// falling back to the configured defaults.
func sizeAndBeat(cfg cliconfig.Config, args []string) (int, int, error) {
	size, beat := cfg.DanceSizeMM, cfg.BeatMS
	if len(args) >= 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, fmt.Errorf("parse size: %w", err)
		}
		size = n
	}
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return 0, 0, fmt.Errorf("parse beat: %w", err)
		}
		beat = n
	}
	return size, beat, nil
}

// formatStatus renders a snapshot the way the status command prints it.
func formatStatus(snap *domain.Snapshot) string {
	state := "unknown"
	battery := "unknown"
	if snap != nil {
		if snap.State != "" {
			state = snap.State
		}
		if snap.Battery >= 0 {
			battery = fmt.Sprintf("%d%%", snap.Battery)
		}
	}
	return fmt.Sprintf("State: %s, Battery: %s", state, battery)
}
