// Command yulebrawl-term runs the arena in a terminal.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/yulebrawl/arena"
	"github.com/plus3/yulebrawl/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		logPath    = flag.String("log", "", "write logs to this file instead of discarding them")
		latch      = flag.Duration("latch", 150*time.Millisecond, "how long a key press counts as held")
	)
	flag.Parse()

	if err := run(*configPath, *logPath, *latch); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, logPath string, latch time.Duration) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// The screen owns stdout, so logs only go to a file.
	logger := slog.New(slog.DiscardHandler)
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.Level()}))
	}

	input := newLatchInput(latch)
	world := arena.NewWorld(
		arena.WithLogger(logger),
		arena.WithTuning(cfg.Tuning.Tuning()),
		arena.WithInput(input),
		arena.WithSeed(cfg.Seed),
	)
	if _, err := cfg.Spawn(world); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	r := &renderer{screen: screen, arenaW: cfg.Arena.W, arenaH: cfg.Arena.H}
	ticker := time.NewTicker(time.Second / time.Duration(cfg.TickRate))
	defer ticker.Stop()

	spawned := len(cfg.Players)
	banner := ""
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					logger.Info("quit", "ticks", world.Scheduler().Ticks())
					return nil
				}
				if key, ok := keyName(ev); ok {
					input.Press(key)
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			if banner == "" {
				world.Tick()
				if players := world.Players(); spawned > 1 && len(players) <= 1 {
					banner = "nobody wins"
					if len(players) == 1 {
						banner = players[0].Name + " wins! (esc to quit)"
					}
					logger.Info("match over", "result", banner)
				}
			}
			r.draw(world, banner)
		}
	}
}
