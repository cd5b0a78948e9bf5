package export

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Raster is an in-memory RGBA surface. Captured frames are quantised to a
// palette of background-to-colour ramps for GIF output.
type Raster struct {
	img     *image.RGBA
	bg      colorful.Color
	palette color.Palette
	index   map[uint32]uint8
	frames  []*image.Paletted
}

func NewRaster(w, h int, bg colorful.Color, colors []colorful.Color) *Raster {
	r := &Raster{
		img:     image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0))),
		bg:      bg,
		palette: gifPalette(bg, colors),
		index:   make(map[uint32]uint8),
	}
	r.Clear()
	return r
}

// gifPalette spreads 255 entries evenly over one ramp per colour, plus
// white for saturated overlaps.
func gifPalette(bg colorful.Color, colors []colorful.Color) color.Palette {
	p := color.Palette{bg.Clamped()}
	if len(colors) == 0 {
		colors = []colorful.Color{{R: 1, G: 1, B: 1}}
	}
	steps := 254 / len(colors)
	for _, c := range colors {
		for i := 1; i <= steps; i++ {
			p = append(p, bg.BlendRgb(c, float64(i)/float64(steps)).Clamped())
		}
	}
	return append(p, color.White)
}

func (r *Raster) Image() *image.RGBA { return r.img }

// Resize reallocates the image and clears it. Captured frames are kept.
func (r *Raster) Resize(w, h int) {
	r.img = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	r.Clear()
}

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.bg.Clamped()), image.Point{}, draw.Src)
}

func (r *Raster) Fade(alpha float64) {
	b := r.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r.blend(x, y, r.bg, alpha)
		}
	}
}

// Circle fills a disc, with partial coverage on the rim.
func (r *Raster) Circle(x, y, rad float64, c colorful.Color, alpha float64) {
	if rad <= 0 || alpha <= 0 {
		return
	}
	x0, x1 := int(math.Floor(x-rad-1)), int(math.Ceil(x+rad+1))
	y0, y1 := int(math.Floor(y-rad-1)), int(math.Ceil(y+rad+1))
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			d := math.Hypot(float64(px)+0.5-x, float64(py)+0.5-y)
			cover := math.Max(0, math.Min(1, rad+0.5-d))
			if cover > 0 {
				r.blend(px, py, c, alpha*cover)
			}
		}
	}
}

// Line walks the segment one pixel at a time along its major axis. Widths
// under one pixel lower the alpha instead of thinning the stroke.
func (r *Raster) Line(x0, y0, x1, y1, width float64, c colorful.Color, alpha float64) {
	if alpha <= 0 {
		return
	}
	if width < 1 {
		alpha *= width
		width = 1
	}
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		steps = 1
	}
	thick := int(math.Round(width))
	var seen map[image.Point]struct{}
	if thick > 1 {
		seen = make(map[image.Point]struct{}, steps*thick)
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		cx := int(math.Floor(x0 + (x1-x0)*t))
		cy := int(math.Floor(y0 + (y1-y0)*t))
		if seen == nil {
			r.blend(cx, cy, c, alpha)
			continue
		}
		for py := cy - thick/2; py < cy-thick/2+thick; py++ {
			for px := cx - thick/2; px < cx-thick/2+thick; px++ {
				pt := image.Pt(px, py)
				if _, ok := seen[pt]; ok {
					continue
				}
				seen[pt] = struct{}{}
				r.blend(px, py, c, alpha)
			}
		}
	}
}

func (r *Raster) blend(x, y int, c colorful.Color, alpha float64) {
	if !image.Pt(x, y).In(r.img.Bounds()) {
		return
	}
	alpha = math.Min(alpha, 1)
	i := r.img.PixOffset(x, y)
	px := r.img.Pix[i : i+4 : i+4]
	cr, cg, cb := c.Clamped().RGB255()
	px[0] = mix(px[0], cr, alpha)
	px[1] = mix(px[1], cg, alpha)
	px[2] = mix(px[2], cb, alpha)
	px[3] = 0xff
}

func mix(dst, src uint8, a float64) uint8 {
	return uint8(float64(dst)*(1-a) + float64(src)*a + 0.5)
}

// Capture appends the current image as a GIF frame. Frames repeat few
// distinct colours, so palette lookups are cached.
func (r *Raster) Capture() {
	b := r.img.Bounds()
	frame := image.NewPaletted(b, r.palette)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := r.img.PixOffset(x, y)
			px := r.img.Pix[i : i+3 : i+3]
			key := uint32(px[0])<<16 | uint32(px[1])<<8 | uint32(px[2])
			idx, ok := r.index[key]
			if !ok {
				idx = uint8(r.palette.Index(color.RGBA{R: px[0], G: px[1], B: px[2], A: 0xff}))
				r.index[key] = idx
			}
			frame.Pix[frame.PixOffset(x, y)] = idx
		}
	}
	r.frames = append(r.frames, frame)
}

func (r *Raster) Frames() int { return len(r.frames) }

// WriteGIF encodes every captured frame, delay in hundredths of a second
// per frame, looping forever.
func (r *Raster) WriteGIF(w io.Writer, delay int) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	out := gif.GIF{LoopCount: 0}
	var width, height int
	for _, f := range r.frames {
		out.Image = append(out.Image, f)
		out.Delay = append(out.Delay, delay)
		width, height = max(width, f.Bounds().Dx()), max(height, f.Bounds().Dy())
	}
	// frames recorded before and after a resize share one screen
	out.Config = image.Config{ColorModel: r.palette, Width: width, Height: height}
	return gif.EncodeAll(w, &out)
}
