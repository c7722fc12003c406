package main

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/plus3/yulebrawl/arena"
	"github.com/plus3/yulebrawl/config"
	"github.com/plus3/yulebrawl/ecs/debugui"
	debugui_ebiten "github.com/plus3/yulebrawl/ecs/debugui/ebiten"
)

const hudHeight = 40

var palette = []color.RGBA{
	colornames.Crimson,
	colornames.Seagreen,
	colornames.Gold,
	colornames.Steelblue,
	colornames.Orchid,
	colornames.Chocolate,
}

// Game adapts an arena.World to ebiten.Game.
type Game struct {
	world   *arena.World
	cfg     config.Config
	logger  *slog.Logger
	face    text.Face
	watcher *config.Watcher
	in      *ebitenInput

	imgui   *debugui_ebiten.ImguiBackend
	overlay *debugui.Overlay

	spawned int
	winner  string
}

func newGame(world *arena.World, in *ebitenInput, cfg config.Config, logger *slog.Logger) *Game {
	return &Game{
		world:   world,
		in:      in,
		cfg:     cfg,
		logger:  logger,
		face:    text.NewGoXFace(basicfont.Face7x13),
		spawned: len(cfg.Players),
	}
}

func (g *Game) Update() error {
	g.pollConfig()

	if g.imgui != nil {
		g.imgui.BeginFrame()
		defer g.imgui.EndFrame()
		if state := g.overlay.System.InputState.Get(); state != nil {
			g.in.muted = state.WantCaptureKeyboard
		}
	}

	if g.winner == "" {
		g.world.Tick()
		g.checkWinner()
	}
	if g.overlay != nil {
		g.overlay.Update()
	}
	return nil
}

func (g *Game) pollConfig() {
	if g.watcher == nil {
		return
	}
	select {
	case cfg, ok := <-g.watcher.Configs:
		if !ok {
			g.watcher = nil
			return
		}
		if err := g.world.SetTuning(cfg.Tuning.Tuning()); err != nil {
			g.logger.Warn("rejected tuning reload", "error", err)
		}
	case err, ok := <-g.watcher.Errors:
		if !ok {
			g.watcher = nil
			return
		}
		g.logger.Warn("config reload failed", "error", err)
	default:
	}
}

// checkWinner ends the match once only one fighter is left standing.
func (g *Game) checkWinner() {
	players := g.world.Players()
	if g.spawned < 2 || len(players) > 1 {
		return
	}
	if len(players) == 1 {
		g.winner = players[0].Name
	} else {
		g.winner = "nobody"
	}
	g.logger.Info("match over", "winner", g.winner, "ticks", g.world.Scheduler().Ticks())
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Snow)

	for _, d := range g.world.Drawables() {
		w, h := d.W, d.H
		if w == 0 || h == 0 {
			w, h = 16, 16
		}
		vector.DrawFilledRect(screen, float32(d.X), float32(d.Y)+hudHeight, float32(w), float32(h), frameColor(d.Frame), false)
	}

	g.drawHUD(screen)

	if g.imgui != nil {
		g.imgui.Draw(screen)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(g.cfg.Arena.W), hudHeight, colornames.Darkslategray, false)

	for i, p := range g.world.Players() {
		line := fmt.Sprintf("%s  HP %d/%d  ammo %d", p.Name, p.CurrHealth, p.MaxHealth, p.Ammo)
		g.drawText(screen, line, 8, float64(6+i*16), colornames.White)
	}
	if g.winner != "" {
		g.drawText(screen, fmt.Sprintf("%s wins!", g.winner), g.cfg.Arena.W/2-40, hudHeight+g.cfg.Arena.H/2, colornames.Black)
	}
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, g.face, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Layout(outsideWidth, outsideHeight)
		return outsideWidth, outsideHeight
	}
	return int(g.cfg.Arena.W), int(g.cfg.Arena.H) + hudHeight
}

// frameColor resolves a frame key: CSS color names map directly, anything
// else gets a stable palette entry.
func frameColor(frame string) color.Color {
	if c, ok := colornames.Map[frame]; ok {
		return c
	}
	h := fnv.New32a()
	h.Write([]byte(frame))
	return palette[h.Sum32()%uint32(len(palette))]
}
