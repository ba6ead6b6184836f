package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/spacehunter/assets"
	"github.com/milk9111/spacehunter/ecs"
	"github.com/milk9111/spacehunter/prefabs"
	"github.com/milk9111/spacehunter/sim"
)

type sprite struct {
	img  *ebiten.Image
	tint color.Color
}

func newSprite(spec prefabs.SpriteSpec) sprite {
	s := sprite{
		img:  ebiten.NewImageFromImage(assets.Render(spec.Shape, spec.Width, spec.Height)),
		tint: color.White,
	}
	if spec.Color != nil && spec.Color.Color != nil {
		s.tint = spec.Color.Color
	}
	return s
}

// draw centers the sprite on (x, y), rotated clockwise by angle radians.
func (s sprite) draw(dst *ebiten.Image, x, y, angle float64) {
	b := s.img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
	op.GeoM.Rotate(angle)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(s.tint)
	dst.DrawImage(s.img, op)
}

type spriteSet struct {
	byKind    map[ecs.Kind]sprite
	explosion sprite
	pixel     *ebiten.Image
}

func newSpriteSet(specs sim.Specs) *spriteSet {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &spriteSet{
		byKind: map[ecs.Kind]sprite{
			ecs.KindPlayer:     newSprite(specs.Player.Sprite),
			ecs.KindAlien:      newSprite(specs.Alien.Sprite),
			ecs.KindProjectile: newSprite(specs.Projectile.Sprite),
		},
		explosion: sprite{
			img:  ebiten.NewImageFromImage(assets.Explosion(48)),
			tint: color.NRGBA{R: 0xff, G: 0xa5, B: 0x00, A: 0xff},
		},
		pixel: pixel,
	}
}

func (s *spriteSet) rect(dst *ebiten.Image, x, y, w, h float64, clr color.Color) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	dst.DrawImage(s.pixel, op)
}
