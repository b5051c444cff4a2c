package imageio

import (
	"fmt"
	"image"
	"image/color"
)

// SampleArray is the numeric form of a decoded image: Height rows of Width
// pixels, each pixel holding Channels interleaved unsigned samples.
//
// Samples are stored widened to uint16 regardless of BitDepth so that 8-bit
// and 16-bit sources share one layout. A SampleArray is never modified after
// it is built.
type SampleArray struct {
	Width    int
	Height   int
	Channels int // 1 (gray), 3 (RGB) or 4 (RGBA, non-premultiplied)
	BitDepth int // 8 or 16
	Stride   int // Samples per row (Width * Channels)
	Pix      []uint16
}

// Shape identifies the layout two sample arrays must share to be compared.
type Shape struct {
	Height   int
	Width    int
	Channels int
	BitDepth int
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d@%dbit", s.Height, s.Width, s.Channels, s.BitDepth)
}

// NewSampleArray allocates a zeroed array.
func NewSampleArray(width, height, channels, bitDepth int) *SampleArray {
	return &SampleArray{
		Width:    width,
		Height:   height,
		Channels: channels,
		BitDepth: bitDepth,
		Stride:   width * channels,
		Pix:      make([]uint16, width*height*channels),
	}
}

// Shape returns the array's dimensions.
func (s *SampleArray) Shape() Shape {
	return Shape{Height: s.Height, Width: s.Width, Channels: s.Channels, BitDepth: s.BitDepth}
}

// Row returns the samples of row y.
func (s *SampleArray) Row(y int) []uint16 {
	start := y * s.Stride
	return s.Pix[start : start+s.Width*s.Channels]
}

// MaxSample is the largest value a sample can hold at this bit depth.
func (s *SampleArray) MaxSample() float64 {
	return float64(uint32(1)<<uint(s.BitDepth) - 1)
}

// FromImage converts a decoded image into a SampleArray.
//
// Gray images, and paletted images whose palette is all opaque grays, give
// one channel. Color images give RGB when every pixel is
// opaque and RGBA otherwise; paletted images are expanded through their
// palette. 16-bit color models keep 16-bit samples.
func FromImage(img image.Image) *SampleArray {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	switch m := img.(type) {
	case *image.Gray:
		out := NewSampleArray(width, height, 1, 8)
		for y := 0; y < height; y++ {
			src := m.Pix[y*m.Stride : y*m.Stride+width]
			dst := out.Row(y)
			for x, v := range src {
				dst[x] = uint16(v)
			}
		}
		return out
	case *image.Gray16:
		out := NewSampleArray(width, height, 1, 16)
		for y := 0; y < height; y++ {
			i := y * m.Stride
			dst := out.Row(y)
			for x := 0; x < width; x++ {
				dst[x] = uint16(m.Pix[i+2*x])<<8 | uint16(m.Pix[i+2*x+1])
			}
		}
		return out
	case *image.Paletted:
		if levels, ok := grayLevels(m.Palette); ok {
			out := NewSampleArray(width, height, 1, 8)
			for y := 0; y < height; y++ {
				src := m.Pix[y*m.Stride : y*m.Stride+width]
				dst := out.Row(y)
				for x, idx := range src {
					if int(idx) < len(levels) {
						dst[x] = levels[idx]
					}
				}
			}
			return out
		}
	}

	channels := 3
	if !isOpaque(img) {
		channels = 4
	}

	if is16Bit(img.ColorModel()) {
		out := NewSampleArray(width, height, channels, 16)
		for y := 0; y < height; y++ {
			dst := out.Row(y)
			for x := 0; x < width; x++ {
				c := color.NRGBA64Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA64)
				i := x * channels
				dst[i+0], dst[i+1], dst[i+2] = c.R, c.G, c.B
				if channels == 4 {
					dst[i+3] = c.A
				}
			}
		}
		return out
	}

	out := NewSampleArray(width, height, channels, 8)
	for y := 0; y < height; y++ {
		dst := out.Row(y)
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			i := x * channels
			dst[i+0], dst[i+1], dst[i+2] = uint16(c.R), uint16(c.G), uint16(c.B)
			if channels == 4 {
				dst[i+3] = uint16(c.A)
			}
		}
	}
	return out
}

func is16Bit(m color.Model) bool {
	switch m {
	case color.RGBA64Model, color.NRGBA64Model, color.Gray16Model, color.Alpha16Model:
		return true
	}
	return false
}

// grayLevels returns the gray value of each palette entry when the palette
// holds only opaque grays, as written by 8-bit grayscale BMP encoders.
func grayLevels(p color.Palette) ([]uint16, bool) {
	if len(p) == 0 {
		return nil, false
	}
	levels := make([]uint16, len(p))
	for i, c := range p {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		if n.A != 0xff || n.R != n.G || n.G != n.B {
			return nil, false
		}
		levels[i] = uint16(n.R)
	}
	return levels, true
}

// isOpaque reports whether every pixel has full alpha.
func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}

// Expand returns a copy of s laid out with more channels. Gray samples are
// replicated into R, G and B; a missing alpha channel is filled with
// MaxSample (fully opaque). Expanding to the current channel count returns s.
func (s *SampleArray) Expand(channels int) (*SampleArray, error) {
	if channels == s.Channels {
		return s, nil
	}
	if channels < s.Channels || (channels != 3 && channels != 4) || (s.Channels != 1 && s.Channels != 3) {
		return nil, fmt.Errorf("cannot expand %d channels to %d", s.Channels, channels)
	}

	opaque := uint16(s.MaxSample())
	out := NewSampleArray(s.Width, s.Height, channels, s.BitDepth)
	for y := 0; y < s.Height; y++ {
		src := s.Row(y)
		dst := out.Row(y)
		for x := 0; x < s.Width; x++ {
			i := x * channels
			if s.Channels == 1 {
				v := src[x]
				dst[i+0], dst[i+1], dst[i+2] = v, v, v
			} else {
				j := x * 3
				dst[i+0], dst[i+1], dst[i+2] = src[j+0], src[j+1], src[j+2]
			}
			if channels == 4 {
				dst[i+3] = opaque
			}
		}
	}
	return out, nil
}
