package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cwbudde/spectral-eq/dsp/band"
	"github.com/cwbudde/spectral-eq/dsp/dither"
	"github.com/cwbudde/spectral-eq/dsp/stft"
	"github.com/cwbudde/spectral-eq/internal/audio"
	"github.com/cwbudde/spectral-eq/internal/config"
	"github.com/cwbudde/spectral-eq/internal/logging"
	"github.com/cwbudde/spectral-eq/internal/preset"
	"github.com/cwbudde/spectral-eq/internal/webdemo"
)

// app carries the state shared by all subcommands.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"log-level":    "log_level",
	"frame-length": "frame_length",
	"hop-length":   "hop_length",
	"floor-db":     "floor_db",
	"workers":      "workers",
	"overlap":      "overlap",
}

// localFlagKeys maps export flags shared by several subcommands.
var localFlagKeys = map[string]string{
	"bit-depth": "bit_depth",
	"dither":    "dither",
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "spectraleq",
		Short: "Spectral band equalizer and spectrogram viewer",
		Long: `spectraleq transforms a whole audio file to the frequency domain, scales
the bins inside each selected band by its gain and transforms back.

Bands are given as min:max:gain in Hz, with the gain either linear (0 mutes,
1 keeps, 2 doubles) or in dB with a dB suffix.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initialize,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "",
		"config file (default is ./spectraleq.yaml or $HOME/.config/spectraleq/spectraleq.yaml)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.Int("frame-length", stft.DefaultFrameLength, "spectrogram frame length, a power of two")
	pf.Int("hop-length", stft.DefaultHopLength, "spectrogram hop length")
	pf.Float64("floor-db", stft.DefaultFloorDB, "spectrogram floor in dB")
	pf.Int("workers", 0, "spectrogram workers (0 uses all CPUs)")
	pf.String("overlap", band.OverlapLastWins.String(), "overlapping bands: last-wins or multiply")

	root.AddCommand(
		a.equalizeCmd(),
		a.spectrogramCmd(),
		a.playCmd(),
		a.infoCmd(),
		a.generateCmd(),
		a.presetCmd(),
	)
	return root
}

// initialize resolves the configuration after flags are parsed.
func (a *app) initialize(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(a.configFile)
	if err != nil {
		return err
	}
	if err := bindFlags(cmd, v); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	if used := v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", zap.String("path", used))
	}
	return nil
}

// bindFlags binds persistent and local flags to their config keys.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error
	bind := func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			key, ok = localFlagKeys[f.Name]
		}
		if !ok {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}
	}
	cmd.Root().PersistentFlags().VisitAll(bind)
	cmd.LocalFlags().VisitAll(bind)
	return lastErr
}

// bandFlags adds the --band, --preset and --strict flags.
type bandFlags struct {
	specs  []string
	preset string
	strict bool
}

func (b *bandFlags) register(fs *pflag.FlagSet) {
	fs.StringArrayVarP(&b.specs, "band", "b", nil, "band as min:max:gain (repeatable)")
	fs.StringVarP(&b.preset, "preset", "p", "", "YAML preset with bands")
	fs.BoolVar(&b.strict, "strict", false, "reject overlapping bands")
}

// resolve returns the preset bands followed by the --band flags.
func (b *bandFlags) resolve() ([]band.Band, error) {
	var bands []band.Band
	if b.preset != "" {
		p, err := preset.Load(b.preset, b.strict)
		if err != nil {
			return nil, err
		}
		bands = append(bands, p.Bands...)
	}
	for _, s := range b.specs {
		bd, err := band.Parse(s)
		if err != nil {
			return nil, err
		}
		bands = append(bands, bd)
	}

	var opts []band.ValidateOption
	if b.strict {
		opts = append(opts, band.RejectOverlap())
	}
	if err := band.Validate(bands, opts...); err != nil {
		return nil, err
	}
	return bands, nil
}

// newEngine loads path into a configured engine with bands applied.
func (a *app) newEngine(path string, bands []band.Band) (*webdemo.Engine, *audio.Clip, error) {
	clip, err := audio.DecodeFile(path)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Info("decoded",
		zap.String("file", path),
		zap.String("format", string(clip.Format)),
		zap.Int("sample_rate", clip.SampleRate),
		zap.Int("channels", clip.Channels),
		zap.Float64("seconds", clip.Duration()))

	e, err := webdemo.NewEngine(float64(clip.SampleRate),
		webdemo.WithLogger(a.logger),
		webdemo.WithOverlapPolicy(a.cfg.OverlapPolicy()))
	if err != nil {
		return nil, nil, err
	}
	err = e.SetSpectrum(webdemo.SpectrumParams{
		FrameLength: a.cfg.FrameLength,
		HopLength:   a.cfg.HopLength,
		FloorDB:     a.cfg.FloorDB,
		Workers:     a.cfg.Workers,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := e.LoadSignal(clip.Samples, float64(clip.SampleRate)); err != nil {
		return nil, nil, err
	}
	if err := e.SetBands(bands); err != nil {
		return nil, nil, err
	}
	return e, clip, nil
}

// writeWAV writes samples to path using the configured bit depth and dither.
func (a *app) writeWAV(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = audio.WriteWAV(f, samples, sampleRate, a.cfg.BitDepth,
		audio.WithDither(a.cfg.DitherType()))
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// exportFlags registers --bit-depth and --dither on fs.
func exportFlags(fs *pflag.FlagSet) {
	fs.Int("bit-depth", 16, "output bit depth (16 or 24)")
	fs.String("dither", dither.Triangular.String(), "output dither: none, rectangular or triangular")
}

func formatDB(db float64) string {
	return fmt.Sprintf("%.1f dB", db)
}
