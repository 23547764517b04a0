package preview

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/tigerbot-team/ghosttrap/pkg/hardware"
)

const (
	S = 256

	ringPixels = 16
)

// Draw renders a top-down sketch of the trap: the two doors swung to their
// servo angles, the bar graph, the pixel ring, and the relay, indicator and
// status lamps along the bottom.
func Draw(s hardware.State, maxAngle int) image.Image {
	dc := gg.NewContext(S, S)
	dc.SetRGB(0.1, 0.1, 0.12)
	dc.Clear()

	// Pixel ring.
	for i := 0; i < ringPixels; i++ {
		a := 2 * math.Pi * float64(i) / ringPixels
		dc.DrawCircle(S/2+70*math.Cos(a), 100+70*math.Sin(a), 6)
		setColour(dc, s.Ring, 0.15)
		dc.Fill()
	}

	// Doors hinge on the outer edges; an angle of 0 lies flat.
	drawDoor(dc, 58, 100, doorRadians(s.DoorLeft, maxAngle), 1)
	drawDoor(dc, S-58, 100, doorRadians(s.DoorRight, maxAngle), -1)

	// Bar graph.
	for n, duty := range s.Bars {
		dc.DrawRectangle(20, 40+float64(n)*24, 16, 18)
		lamp(dc, duty > 0, color.RGBA{255, 40, 0, 255})
	}

	// Bottom row: relay, indicator, status.
	dc.DrawCircle(60, 220, 10)
	lamp(dc, s.Relay, color.RGBA{255, 0, 0, 255})
	dc.DrawCircle(128, 220, 10)
	lamp(dc, s.Indicator, color.RGBA{0, 255, 0, 255})
	dc.DrawCircle(196, 220, 10)
	setColour(dc, s.Status, 0.15)
	dc.Fill()

	if s.White > 0 {
		dc.DrawCircle(S/2, 100, 30)
		dc.SetRGBA(1, 1, 1, float64(s.White)/0xffff)
		dc.Fill()
	}
	if s.Playing {
		dc.SetRGB(1, 0.9, 0)
		dc.DrawString("playing "+string(s.Clip), 8, 16)
	}
	return dc.Image()
}

// Render draws s and saves it as a PNG.
func Render(s hardware.State, maxAngle int, path string) error {
	return gg.SavePNG(path, Draw(s, maxAngle))
}

func doorRadians(angle, maxAngle int) float64 {
	if maxAngle <= 0 {
		return 0
	}
	return math.Pi / 2 * float64(angle) / float64(maxAngle)
}

func drawDoor(dc *gg.Context, x, y, rad, dir float64) {
	dc.Push()
	dc.Translate(x, y)
	dc.Rotate(-dir * rad)
	dc.DrawRectangle(0, -3, dir*70, 6)
	dc.SetRGB(0.6, 0.6, 0.65)
	dc.Fill()
	dc.Pop()
}

func lamp(dc *gg.Context, on bool, c color.RGBA) {
	if on {
		dc.SetColor(c)
	} else {
		dc.SetRGB(0.2, 0.2, 0.2)
	}
	dc.Fill()
}

// setColour uses a dim grey for black so dark pixels are still visible.
func setColour(dc *gg.Context, c color.RGBA, dark float64) {
	if c.R == 0 && c.G == 0 && c.B == 0 {
		dc.SetRGB(dark, dark, dark)
		return
	}
	dc.SetRGB255(int(c.R), int(c.G), int(c.B))
}
