package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// PNGMimeType is the media type of encoded previews.
const PNGMimeType = "image/png"

// PreviewResult contains an encoded map preview.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as a lossless PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Fit scales img down so neither side exceeds maxDim, keeping the aspect
// ratio. Nearest-neighbour sampling keeps class colors unblended. Images
// already within bounds, or a maxDim <= 0, return img unchanged.
func Fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	if maxDim <= 0 || (b.Dx() <= maxDim && b.Dy() <= maxDim) {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.NearestNeighbor)
}

// NewPreviewResult fits img into maxDim and encodes it as base64 PNG.
func NewPreviewResult(img image.Image, maxDim int) (*PreviewResult, error) {
	out := Fit(img, maxDim)
	data, err := EncodePNG(out)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    PNGMimeType,
	}, nil
}
