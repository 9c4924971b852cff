// Command entrain renders an entrainment session from a YAML manifest
// and a narration WAV.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/driftsignal/entrain/pkg/config"
	"github.com/driftsignal/entrain/pkg/render"
)

// renderPhases is the number of phase callbacks the engine emits.
const renderPhases = 6

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("could not read .env")
	}

	pflag.StringP("manifest", "m", "", "session manifest (YAML)")
	pflag.StringP("out", "o", "out", "output directory")
	pflag.String("session", "", "override the session name")
	pflag.String("preset", "", "render from a built-in preset instead of a full manifest")
	pflag.String("preset-file", "", "load additional presets from a YAML file")
	pflag.String("voice", "", "narration WAV (required with --preset)")
	pflag.String("log-level", "info", "logrus level")
	pflag.Bool("list-presets", false, "print the known presets and exit")
	pflag.Bool("no-progress", false, "disable the progress bar")
	pflag.Parse()

	v := viper.New()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return err
	}
	v.SetEnvPrefix("entrain")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	level, err := log.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("bad log level %q: %w", v.GetString("log-level"), err)
	}
	log.SetLevel(level)

	if path := v.GetString("preset-file"); path != "" {
		if err := config.LoadPresetFile(path); err != nil {
			return err
		}
	}

	if v.GetBool("list-presets") {
		for _, name := range config.PresetNames() {
			fmt.Println(name)
		}
		return nil
	}

	m, err := loadManifest(v)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := render.New(m)
	var done func()
	if !v.GetBool("no-progress") {
		eng.OnPhase, done = progress()
		defer done()
	}

	res, err := eng.Render(ctx)
	if err != nil {
		return err
	}

	session := v.GetString("session")
	if session == "" {
		session = m.Session
	}
	if session == "" {
		session = strings.TrimSuffix(filepath.Base(m.VoicePath), filepath.Ext(m.VoicePath))
	}

	outDir := v.GetString("out")
	if err := res.WriteOutputs(outDir, session); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"session":     session,
		"duration_s":  fmt.Sprintf("%.1f", res.Duration),
		"input_lufs":  fmt.Sprintf("%.1f", res.Report.InputLUFS),
		"gain_db":     fmt.Sprintf("%+.1f", res.Report.GainDB),
		"output_peak": fmt.Sprintf("%.3f", res.Report.OutputPeak),
		"out":         outDir,
	}).Info("render complete")
	return nil
}

// loadManifest resolves either a manifest file or a bare preset plus
// voice path.
func loadManifest(v *viper.Viper) (*config.Manifest, error) {
	if path := v.GetString("manifest"); path != "" {
		return config.Load(path)
	}

	preset := v.GetString("preset")
	voice := v.GetString("voice")
	if preset == "" {
		return nil, fmt.Errorf("either --manifest or --preset is required")
	}
	if voice == "" {
		return nil, fmt.Errorf("--preset needs --voice")
	}

	m := &config.Manifest{
		Preset:    preset,
		VoicePath: voice,
	}
	if err := config.ApplyPreset(m, preset); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// progress returns an OnPhase callback driving an mpb bar, plus a
// cleanup that finishes the bar even on an aborted render.
func progress() (func(string), func()) {
	p := mpb.New(mpb.WithWidth(64))

	current := "starting"
	bar := p.AddBar(renderPhases,
		mpb.PrependDecorators(
			decor.Name("Rendering: "),
			decor.Any(func(decor.Statistics) string { return current }, decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("%d / %d"),
			decor.Percentage(decor.WCSyncSpace),
		),
	)

	onPhase := func(name string) {
		current = name
		bar.Increment()
	}
	done := func() {
		bar.SetTotal(renderPhases, true)
		p.Wait()
	}
	return onPhase, done
}
