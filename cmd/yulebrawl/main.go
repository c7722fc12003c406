// Command yulebrawl runs the two-player arena in an ebiten window.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/yulebrawl/arena"
	"github.com/plus3/yulebrawl/config"
	"github.com/plus3/yulebrawl/ecs/debugui"
	debugui_ebiten "github.com/plus3/yulebrawl/ecs/debugui/ebiten"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		debug      = flag.Bool("debug", false, "show the ImGui debug overlay")
		logLevel   = flag.String("log-level", "", "override the configured log level")
		watch      = flag.Bool("watch", true, "reload tuning when the config file changes")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
		if err := cfg.Validate(); err != nil {
			slog.Error("bad -log-level", "error", err)
			os.Exit(1)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	input := newEbitenInput()
	world := arena.NewWorld(
		arena.WithLogger(logger),
		arena.WithTuning(cfg.Tuning.Tuning()),
		arena.WithInput(input),
		arena.WithSeed(cfg.Seed),
	)
	if _, err := cfg.Spawn(world); err != nil {
		logger.Error("failed to spawn arena", "error", err)
		os.Exit(1)
	}

	game := newGame(world, input, cfg, logger)

	width, height := int(cfg.Arena.W), int(cfg.Arena.H)+hudHeight
	if *debug {
		backend := debugui_ebiten.NewImguiBackend("yulebrawl (debug)", width, height)
		game.imgui = &backend
		game.overlay = debugui.Install(world.Registry(), world.Storage(), world.Scheduler())
	} else {
		ebiten.SetWindowTitle("yulebrawl")
		ebiten.SetWindowSize(width, height)
	}
	ebiten.SetTPS(cfg.TickRate)

	if *watch && *configPath != "" {
		watcher, err := config.NewWatcher(*configPath, 200*time.Millisecond)
		if err != nil {
			logger.Warn("config hot reload disabled", "error", err)
		} else {
			defer watcher.Close()
			game.watcher = watcher
		}
	}

	logger.Info("starting", "players", len(cfg.Players), "tps", cfg.TickRate, "debug", *debug)
	if err := ebiten.RunGame(game); err != nil {
		logger.Error("game exited", "error", err)
		os.Exit(1)
	}
}
