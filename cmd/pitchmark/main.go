package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"

	"github.com/example/pitchmark/internal/config"
	"github.com/example/pitchmark/internal/media"
	"github.com/example/pitchmark/internal/notify"
	"github.com/example/pitchmark/internal/viewer"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	fs := flag.NewFlagSet("pitchmark", flag.ExitOnError)
	configPath := fs.String("config", configPathOverride, "path to config file")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	saveDir := fs.String("save-dir", "", "directory for exported frames (overrides config)")
	saveAlerts := fs.Bool("notify-save", false, "show a desktop notification after saving a frame")
	copyAlerts := fs.Bool("notify-copy", false, "show a desktop notification after copying to the clipboard")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: pitchmark [flags] <video or image>\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if *showVersion {
		fmt.Printf("pitchmark version %s", version)
		if commit != "" {
			fmt.Printf(" (%s", commit)
			if date != "" {
				fmt.Printf(", %s", date)
			}
			fmt.Print(")")
		}
		fmt.Println()
		return
	}

	logger := newLogger(*verbose)
	if *verbose {
		gg.SetLogger(logger)
	}

	loader := config.NewLoader(version, *configPath)
	cfg, err := loader.Load()
	if err != nil {
		log.Printf("warning: failed to load config: %v", err)
		cfg = config.New()
	}
	if *saveDir != "" {
		cfg.SaveDir = *saveDir
	}

	path := fs.Arg(0)
	if path == "" {
		path = cfg.Video
	}
	if path == "" {
		fs.Usage()
		os.Exit(2)
	}

	src, err := openMedia(path, logger)
	if err != nil {
		log.Fatalf("open %s: %v", path, err)
	}
	defer src.Close()

	notifier := notify.New(notify.LoadPreferences())
	notifier.Enable(notify.EventSave, *saveAlerts || cfg.Notify.Save)
	notifier.Enable(notify.EventCopy, *copyAlerts || cfg.Notify.Copy)

	v := viewer.New(src,
		viewer.WithConfig(cfg),
		viewer.WithNotifier(notifier),
		viewer.WithLogger(logger),
	)
	v.Run()
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openMedia picks the source type from the file extension.
func openMedia(path string, logger *slog.Logger) (media.Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return media.OpenStill(path)
	default:
		return media.OpenVideo(path, logger)
	}
}
