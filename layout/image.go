package layout

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"docforge/docspec"
	"docforge/ir/semantic"
)

// renderImage places a raster asset at the cursor (or explicit coordinates)
// and optionally registers a clickable region over its box. An unreadable
// asset aborts the render session.
func (e *Engine) renderImage(el docspec.Element) error {
	if el.Src == "" {
		return fmt.Errorf("image element missing src")
	}
	img, err := LoadImage(el.Src)
	if err != nil {
		return err
	}

	w, h := el.Width, el.Height
	switch {
	case w > 0 && h <= 0:
		h = w * float64(img.Height) / float64(img.Width)
	case h > 0 && w <= 0:
		w = h * float64(img.Width) / float64(img.Height)
	case w <= 0 && h <= 0:
		w = float64(img.Width)
		h = float64(img.Height)
		if w > e.frame.width {
			h *= e.frame.width / w
			w = e.frame.width
		}
	}

	x := e.frame.x + el.X
	cursorRelative := el.Y == nil
	var top float64
	if cursorRelative {
		e.checkPageBreak(h)
		top = e.cursorY
	} else {
		top = e.pageHeight - *el.Y
	}

	e.currentPage.DrawImage(img, x, top-h, w, h)
	if el.URL != "" {
		e.currentPage.AddAnnotation(linkAnnotation(semantic.Rectangle{
			LLX: x, LLY: top - h, URX: x + w, URY: top,
		}, el.URL))
	}
	if cursorRelative {
		e.cursorY = top - h - 5
	}
	e.cursorY -= el.MoveDown
	return nil
}

// LoadImage reads and decodes an image file into an embeddable form.
// JPEG data passes through untouched (viewers decode it natively); every
// other supported format (PNG, GIF, WebP, TIFF) is decoded and re-encoded
// as deflated RGB samples, with transparency split into a soft mask.
func LoadImage(path string) (*semantic.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", path, err)
	}
	return DecodeImage(data)
}

// DecodeImage converts encoded image bytes into an embeddable form. See
// LoadImage.
func DecodeImage(data []byte) (*semantic.Image, error) {
	if len(data) > 2 && data[0] == 0xFF && data[1] == 0xD8 {
		return decodeJPEG(data)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return encodeRGB(src)
}

func decodeJPEG(data []byte) (*semantic.Image, error) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding jpeg: %w", err)
	}
	cs := "DeviceRGB"
	switch cfg.ColorModel {
	case color.GrayModel, color.Gray16Model:
		cs = "DeviceGray"
	case color.CMYKModel:
		cs = "DeviceCMYK"
	}
	return &semantic.Image{
		Subtype:          "Image",
		Width:            cfg.Width,
		Height:           cfg.Height,
		ColorSpace:       semantic.DeviceColorSpace{Name: cs},
		BitsPerComponent: 8,
		Data:             data,
		Filter:           "DCTDecode",
	}, nil
}

func encodeRGB(src image.Image) (*semantic.Image, error) {
	bounds := src.Bounds()
	nrgba, ok := src.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(bounds)
		draw.Draw(nrgba, bounds, src, bounds.Min, draw.Src)
	}
	w, h := bounds.Dx(), bounds.Dy()

	rgb := make([]byte, 0, w*h*3)
	alpha := make([]byte, 0, w*h)
	opaque := true
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			rgb = append(rgb, row[x], row[x+1], row[x+2])
			a := row[x+3]
			alpha = append(alpha, a)
			if a != 0xFF {
				opaque = false
			}
		}
	}

	img := &semantic.Image{
		Subtype:          "Image",
		Width:            w,
		Height:           h,
		ColorSpace:       semantic.DeviceColorSpace{Name: "DeviceRGB"},
		BitsPerComponent: 8,
		Data:             deflate(rgb),
		Filter:           "FlateDecode",
	}
	if !opaque {
		img.SMask = &semantic.Image{
			Subtype:          "Image",
			Width:            w,
			Height:           h,
			ColorSpace:       semantic.DeviceColorSpace{Name: "DeviceGray"},
			BitsPerComponent: 8,
			Data:             deflate(alpha),
			Filter:           "FlateDecode",
		}
	}
	return img, nil
}

func deflate(data []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write(data)
	zw.Close()
	return buf.Bytes()
}
