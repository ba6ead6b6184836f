// Package game is the ebiten front end: menus, input decoding and drawing.
// All game rules live in sim.
package game

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/spacehunter/common"
	"github.com/milk9111/spacehunter/ecs"
	"github.com/milk9111/spacehunter/prefabs"
	"github.com/milk9111/spacehunter/sim"
)

type mode int

const (
	modeIntro mode = iota
	modePlaying
	modeOver
)

const explosionFrames = 12

type star struct {
	x, y, speed float64
}

type explosion struct {
	x, y   float64
	frames int
}

type Game struct {
	sim     *sim.Simulation
	log     *zap.Logger
	watcher *prefabs.Watcher
	tps     int

	mode    mode
	quit    bool
	intro   *ebitenui.UI
	over    *ebitenui.UI
	sprites *spriteSet
	face    ebtext.Face

	stars      []star
	explosions []explosion
}

type Options struct {
	Simulation *sim.Simulation
	Logger     *zap.Logger

	// Watcher, when set, triggers a prefab reload on every reported change.
	Watcher *prefabs.Watcher
	TPS     int
}

func New(opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.TPS <= 0 {
		opts.TPS = ebiten.DefaultTPS
	}
	field := opts.Simulation.Field()
	g := &Game{
		sim:     opts.Simulation,
		log:     opts.Logger,
		watcher: opts.Watcher,
		tps:     opts.TPS,
		sprites: newSpriteSet(opts.Simulation.Specs()),
		face:    ebtext.NewGoXFace(basicfont.Face7x13),
	}
	g.intro = newMenu(int(field.Width), int(field.Height), "SPACE HUNTER",
		menuButton{"Play", g.start},
		menuButton{"Quit", g.exit},
	)
	g.stars = make([]star, 120)
	for i := range g.stars {
		g.stars[i] = star{
			x:     rand.Float64() * field.Width,
			y:     rand.Float64() * field.Height,
			speed: 20 + rand.Float64()*60,
		}
	}
	return g
}

func (g *Game) start() {
	if g.mode == modeOver {
		if err := g.sim.Reset(); err != nil {
			g.log.Error("reset", zap.Error(err))
		}
	}
	g.explosions = g.explosions[:0]
	g.mode = modePlaying
}

func (g *Game) exit() {
	g.quit = true
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.pollWatcher()

	dt := 1 / float64(g.tps)
	g.updateStars(dt)

	switch g.mode {
	case modeIntro:
		g.intro.Update()
	case modePlaying:
		// errors are already logged by the simulation and never end the game
		_ = g.sim.Step(dt, readInputs()...)
		g.updateExplosions()
		if g.sim.GameOver() {
			field := g.sim.Field()
			g.over = newMenu(int(field.Width), int(field.Height),
				fmt.Sprintf("Game Over! Your Final Score: %d", g.sim.Score()),
				menuButton{"Play again?", g.start},
				menuButton{"Quit", g.exit},
			)
			g.mode = modeOver
		}
	case modeOver:
		// aliens keep roaming behind the menu
		_ = g.sim.Step(dt)
		g.updateExplosions()
		g.over.Update()
	}
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(change)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("prefab watcher", zap.Error(err))
		default:
			return
		}
	}
}

func (g *Game) reload(change prefabs.Change) {
	if err := g.sim.ReloadSpecs(); err != nil {
		g.log.Warn("prefab reload failed", zap.String("path", change.Path), zap.Error(err))
		return
	}
	g.sprites = newSpriteSet(g.sim.Specs())
	g.log.Debug("prefab changed", zap.String("path", change.Path), zap.String("kind", change.Kind))
}

func (g *Game) updateStars(dt float64) {
	h := g.sim.Field().Height
	for i := range g.stars {
		s := &g.stars[i]
		s.y += s.speed * dt
		if s.y > h {
			s.y -= h
		}
	}
}

func (g *Game) updateExplosions() {
	live := g.explosions[:0]
	for _, e := range g.explosions {
		e.frames--
		if e.frames > 0 {
			live = append(live, e)
		}
	}
	g.explosions = live
	for _, k := range g.sim.View().Kills {
		g.explosions = append(g.explosions, explosion{x: k.X, y: k.Y, frames: explosionFrames})
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	for _, s := range g.stars {
		g.sprites.rect(screen, s.x, s.y, 2, 2, color.Gray{Y: uint8(80 + s.speed*2)})
	}

	switch g.mode {
	case modeIntro:
		g.intro.Draw(screen)
		return
	case modeOver:
		g.drawWorld(screen)
		g.over.Draw(screen)
		return
	}
	g.drawWorld(screen)
	g.drawHUD(screen)
}

func (g *Game) drawWorld(screen *ebiten.Image) {
	view := g.sim.View()
	for _, e := range view.Entities {
		sp, ok := g.sprites.byKind[e.Kind]
		if !ok {
			continue
		}
		angle := 0.0
		switch e.Kind {
		case ecs.KindPlayer:
			if e.Health <= 0 {
				g.sprites.explosion.draw(screen, e.Location.X, e.Location.Y, 0)
				continue
			}
			angle = -e.Rotation * math.Pi / 180
		case ecs.KindProjectile:
			angle = math.Atan2(e.Heading.X, -e.Heading.Y)
		}
		sp.draw(screen, e.Location.X, e.Location.Y, angle)
	}
	for _, ex := range g.explosions {
		g.sprites.explosion.draw(screen, ex.x, ex.y, 0)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	view := g.sim.View()
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(10, 10)
	op.ColorScale.ScaleWithColor(white)
	ebtext.Draw(screen, fmt.Sprintf("%d", view.Score), g.face, op)

	p := g.sim.Player()
	if view.MaxHealth <= 0 {
		return
	}
	const barW, barH = 200.0, 8.0
	x := g.sim.Field().Width - barW - 10
	frac := common.Clamp(float64(p.Player.Health)/float64(view.MaxHealth), 0, 1)
	g.sprites.rect(screen, x, 12, barW, barH, color.NRGBA{R: 0x40, A: 0xff})
	g.sprites.rect(screen, x, 12, barW*frac, barH, color.NRGBA{R: 0xe0, G: 0x20, B: 0x20, A: 0xff})
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	field := g.sim.Field()
	return int(field.Width), int(field.Height)
}

// Run opens the window and blocks until the player quits.
func Run(g *Game, title string) error {
	field := g.sim.Field()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(int(field.Width), int(field.Height))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.tps)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
