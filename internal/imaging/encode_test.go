package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// createHalfImage creates an image with a red left half and a blue right half
func createHalfImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.SetNRGBA(x, y, color.NRGBA{255, 0, 0, 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{0, 0, 255, 255})
			}
		}
	}
	return img
}

func TestEncodePNG_Lossless(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.SetNRGBA(0, 0, ChangeColor)
	src.SetNRGBA(1, 0, color.NRGBA{45, 134, 69, 255})

	data, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}

	for x := 0; x < 3; x++ {
		want := src.NRGBAAt(x, 0)
		got := color.NRGBAModel.Convert(decoded.At(x, 0)).(color.NRGBA)
		if got != want {
			t.Errorf("pixel %d: got %v, want %v", x, got, want)
		}
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		maxDim        int
		wantW, wantH  int
	}{
		{"landscape", 200, 100, 50, 50, 25},
		{"portrait", 100, 400, 100, 25, 100},
		{"within bounds", 40, 30, 50, 40, 30},
		{"disabled", 200, 100, 0, 200, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Fit(createHalfImage(tt.width, tt.height), tt.maxDim)
			b := out.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("size: got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFit_KeepsPaletteColors(t *testing.T) {
	out := Fit(createHalfImage(200, 100), 50)
	b := out.Bounds()

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(out.At(x, y)).(color.NRGBA)
			red := c == color.NRGBA{255, 0, 0, 255}
			blue := c == color.NRGBA{0, 0, 255, 255}
			if !red && !blue {
				t.Fatalf("pixel (%d,%d) = %v is not a source color", x, y, c)
			}
		}
	}
}

func TestNewPreviewResult(t *testing.T) {
	result, err := NewPreviewResult(createHalfImage(64, 32), 16)
	if err != nil {
		t.Fatalf("NewPreviewResult failed: %v", err)
	}

	if result.Width != 16 || result.Height != 8 {
		t.Errorf("size: got %dx%d, want 16x8", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("base64 decode failed: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.DecodeConfig failed: %v", err)
	}
	if cfg.Width != 16 || cfg.Height != 8 {
		t.Errorf("encoded size: got %dx%d, want 16x8", cfg.Width, cfg.Height)
	}
}
