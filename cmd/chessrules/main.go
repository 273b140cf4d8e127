package main

import (
	"flag"
	"image/color"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chessrules/internal/config"
	"github.com/hailam/chessrules/internal/diagram"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/shell"
	"github.com/hailam/chessrules/internal/storage"
)

var (
	configPath  = flag.String("config", "", "YAML configuration file")
	dataDir     = flag.String("data-dir", "", "directory for the game database (overrides config)")
	logLevel    = flag.String("log-level", "", "trace, debug, info, warn or error (overrides config)")
	inMemory    = flag.Bool("memory", false, "keep games in memory only")
	writeConfig = flag.String("write-config", "", "write the effective configuration to this file and exit")
)

func main() {
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	level, _ := cfg.Level()
	log = log.Level(level)

	if *writeConfig != "" {
		if err := cfg.Save(*writeConfig); err != nil {
			log.Fatal().Err(err).Msg("write config")
		}
		log.Info().Str("path", *writeConfig).Msg("configuration written")
		return
	}

	store, err := openStore(cfg.DataDir, *inMemory)
	if err != nil {
		log.Fatal().Err(err).Msg("open storage")
	}
	defer store.Close()

	geo, _ := cfg.Geometry()
	games := game.NewManager(store, geo, cfg.StartFEN, log)
	if _, err := games.Restore(); err != nil {
		log.Error().Err(err).Msg("restore games")
	}

	sh := shell.New(games, store, diagramOptions(cfg.Diagram), log)
	if err := sh.Run(os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("read commands")
	}
}

func openStore(dir string, memory bool) (*storage.Storage, error) {
	if memory {
		return storage.OpenInMemory()
	}
	dbDir, err := storage.GetDatabaseDir(dir)
	if err != nil {
		return nil, err
	}
	return storage.Open(dbDir)
}

// diagramOptions converts validated config colors into render options.
func diagramOptions(d config.Diagram) diagram.Options {
	opts := diagram.DefaultOptions()
	opts.SquareSize = d.SquareSize
	opts.Light = rgba(d.Light)
	opts.Dark = rgba(d.Dark)
	opts.Highlight = rgba(d.Highlight)
	return opts
}

func rgba(hex string) color.RGBA {
	c, _ := config.ParseColor(hex)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}
