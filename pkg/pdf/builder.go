package pdf

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/go-pdf/fpdf"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
)

const (
	mmPerInch = 25.4
	// Telegram photos carry no DPI information, assume screen resolution.
	assumedDPI = 96.0
)

type builder struct {
	maxImages int
}

func NewBuilder(maxImages int) *builder {
	return &builder{maxImages: maxImages}
}

// Build renders each image as one full page, in slice order. The whole
// document is built or nothing is: the first undecodable image aborts with a
// RenderError naming its position.
func (b *builder) Build(images [][]byte) ([]byte, error) {
	if len(images) == 0 {
		return nil, domain.ErrEmptyImageSet
	}
	if len(images) > b.maxImages {
		return nil, fmt.Errorf("%w: %d images, limit is %d", domain.ErrTooManyImages, len(images), b.maxImages)
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)

	for i, data := range images {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, &domain.RenderError{Position: i + 1, Err: err}
		}

		wMM := float64(cfg.Width) * mmPerInch / assumedDPI
		hMM := float64(cfg.Height) * mmPerInch / assumedDPI

		doc.AddPageFormat("P", fpdf.SizeType{Wd: wMM, Ht: hMM})

		name := fmt.Sprintf("image-%d", i+1)
		opts := fpdf.ImageOptions{ImageType: strings.ToUpper(format)}
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		if doc.Err() {
			return nil, &domain.RenderError{Position: i + 1, Err: doc.Error()}
		}

		doc.ImageOptions(name, 0, 0, wMM, hMM, false, opts, 0, "")
		if doc.Err() {
			return nil, &domain.RenderError{Position: i + 1, Err: doc.Error()}
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("serializing pdf: %w", err)
	}

	return buf.Bytes(), nil
}
