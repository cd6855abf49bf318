package cpu

import (
	"image"
	"image/color"
	"math"

	"github.com/gekko3d/particles/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

var white = mgl32.Vec3{1, 1, 1}

// Canvas is a software billboard renderer.
// Sprites are depth tested against the clip volume but never write depth,
// so overlapping sprites blend in index order.
type Canvas struct {
	Clear color.RGBA

	img    *image.RGBA
	sprite *image.RGBA
	tinted map[mgl32.Vec3]*image.RGBA
}

func NewCanvas(width, height int) *Canvas {
	if width <= 0 || height <= 0 {
		width, height = 1, 1
	}
	c := &Canvas{
		Clear:  color.RGBA{A: 255},
		tinted: make(map[mgl32.Vec3]*image.RGBA),
	}
	c.Resize(width, height)
	c.SetSprite(nil)
	return c
}

// SetSprite binds the sprite image. nil binds a single opaque white texel.
func (c *Canvas) SetSprite(img *image.RGBA) {
	if img == nil {
		img = image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.SetRGBA(0, 0, color.RGBA{255, 255, 255, 255})
	}
	c.sprite = img
	c.tinted = make(map[mgl32.Vec3]*image.RGBA)
}

func (c *Canvas) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if c.img != nil && c.img.Bounds().Dx() == width && c.img.Bounds().Dy() == height {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

func (c *Canvas) Image() *image.RGBA { return c.img }

// Render clears the canvas and draws every particle of v. Returns the number of
// sprites that passed the depth test.
func (c *Canvas) Render(v core.View, job core.DrawJob) int {
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{C: c.Clear}, image.Point{}, draw.Src)

	b := c.img.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	viewProj := job.Projection.Mul4(job.View)
	halfSize := job.Size / 2
	sx := job.Projection.At(0, 0) * halfSize * w / 2
	sy := job.Projection.At(1, 1) * halfSize * h / 2

	drawn := 0
	for i := 0; i < v.Len(); i++ {
		clip := viewProj.Mul4x1(v.Position(i).Vec4(1))
		cw := clip.W()
		if cw <= 0 {
			continue
		}
		depth := clip.Z() / cw
		if depth < -1 || depth > 1 {
			continue
		}

		cx := (clip.X()/cw*0.5 + 0.5) * w
		cy := (0.5 - clip.Y()/cw*0.5) * h
		hw, hh := sx/cw, sy/cw
		r := image.Rect(
			int(math.Floor(float64(cx-hw))),
			int(math.Floor(float64(cy-hh))),
			int(math.Ceil(float64(cx+hw))),
			int(math.Ceil(float64(cy+hh))),
		)
		if r.Dx() < 1 {
			r.Max.X = r.Min.X + 1
		}
		if r.Dy() < 1 {
			r.Max.Y = r.Min.Y + 1
		}
		drawn++
		if !r.Overlaps(b) {
			continue
		}

		src := c.spriteFor(v.Color(i))
		draw.BiLinear.Scale(c.img, r, src, src.Bounds(), draw.Over, nil)
	}
	return drawn
}

// spriteFor returns the sprite multiplied by tint, cached per tint.
func (c *Canvas) spriteFor(tint mgl32.Vec3) *image.RGBA {
	if tint == white {
		return c.sprite
	}
	if img, ok := c.tinted[tint]; ok {
		return img
	}

	img := image.NewRGBA(c.sprite.Bounds())
	copy(img.Pix, c.sprite.Pix)
	for p := 0; p+3 < len(img.Pix); p += 4 {
		img.Pix[p+0] = scaleChannel(img.Pix[p+0], tint[0])
		img.Pix[p+1] = scaleChannel(img.Pix[p+1], tint[1])
		img.Pix[p+2] = scaleChannel(img.Pix[p+2], tint[2])
	}
	c.tinted[tint] = img
	return img
}

func scaleChannel(v uint8, f float32) uint8 {
	return uint8(mgl32.Clamp(float32(v)*f, 0, 255))
}
