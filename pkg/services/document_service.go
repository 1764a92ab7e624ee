package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
)

const (
	// Telegram rejects bot file downloads above 20 MB anyway; fail fast.
	maxPDFSizeBytes = 20 * 1024 * 1024

	maxMessageLength = 4096
)

type FileDownloader interface {
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

type ImageSetRepository interface {
	Append(chatID int64, image []byte) (int, error)
	Get(chatID int64) [][]byte
	Clear(chatID int64)
}

type PDFBuilder interface {
	Build(images [][]byte) ([]byte, error)
}

type TextExtractor interface {
	Extract(data []byte) (string, error)
}

type documentService struct {
	imageSets  ImageSetRepository
	downloader FileDownloader
	builder    PDFBuilder
	extractor  TextExtractor
	responseCh chan<- domain.Response
}

func NewDocumentService(
	imageSets ImageSetRepository,
	downloader FileDownloader,
	builder PDFBuilder,
	extractor TextExtractor,
	responseCh chan<- domain.Response,
) *documentService {
	return &documentService{
		imageSets:  imageSets,
		downloader: downloader,
		builder:    builder,
		extractor:  extractor,
		responseCh: responseCh,
	}
}

// CollectImage appends one photo to the chat's pending image set, in arrival
// order, and acknowledges it.
func (d *documentService) CollectImage(ctx context.Context, chatID int64, fileID string) {
	data, err := d.downloader.DownloadFile(ctx, fileID)
	if err != nil {
		d.responseCh <- domain.Response{ChatID: chatID, Err: fmt.Errorf("downloading photo: %w", err)}
		return
	}

	count, err := d.imageSets.Append(chatID, data)
	if err != nil {
		d.responseCh <- domain.Response{ChatID: chatID, Err: fmt.Errorf("collecting photo: %w", err)}
		return
	}

	d.responseCh <- domain.Response{
		ChatID: chatID,
		Text:   fmt.Sprintf("✅ Image %d saved. Send more, or use /pdf to get the document.", count),
	}
}

// BuildPDF finalizes the pending image set. The set is cleared only on
// success; any failure leaves it intact so the user can retry or /clear.
func (d *documentService) BuildPDF(ctx context.Context, chatID int64) {
	images := d.imageSets.Get(chatID)

	slog.InfoContext(ctx, "Building PDF from pending images", "chatID", chatID, "imageCount", len(images))

	data, err := d.builder.Build(images)
	if err != nil {
		d.responseCh <- domain.Response{ChatID: chatID, Err: fmt.Errorf("building pdf: %w", err)}
		return
	}

	d.imageSets.Clear(chatID)

	d.responseCh <- domain.Response{
		ChatID: chatID,
		File:   &domain.File{Name: "images.pdf", Data: data},
	}
}

// DiscardImages drops the pending set without a reply; /clear confirms
// separately.
func (d *documentService) DiscardImages(chatID int64) {
	d.imageSets.Clear(chatID)
}

func (d *documentService) RequestPDF(ctx context.Context, chatID int64) {
	d.responseCh <- domain.Response{
		ChatID: chatID,
		Text:   "Send me a PDF document and I'll extract its text.",
	}
}

// ExtractText runs text-layer extraction on an uploaded PDF. Results longer
// than one Telegram message come back as a text file instead of being
// chunked.
func (d *documentService) ExtractText(ctx context.Context, chatID int64, fileID string, fileSize int) {
	if fileSize > maxPDFSizeBytes {
		d.responseCh <- domain.Response{ChatID: chatID, Err: fmt.Errorf("pdf of %d bytes: %w", fileSize, domain.ErrPayloadTooLarge)}
		return
	}

	data, err := d.downloader.DownloadFile(ctx, fileID)
	if err != nil {
		d.responseCh <- domain.Response{ChatID: chatID, Err: fmt.Errorf("downloading pdf: %w", err)}
		return
	}

	slog.InfoContext(ctx, "Extracting text from PDF", "chatID", chatID, "sizeBytes", len(data))

	text, err := d.extractor.Extract(data)
	if err != nil {
		d.responseCh <- domain.Response{ChatID: chatID, Err: fmt.Errorf("extracting text: %w", err)}
		return
	}

	if len(text) > maxMessageLength {
		d.responseCh <- domain.Response{
			ChatID: chatID,
			File:   &domain.File{Name: "extracted.txt", Data: []byte(text)},
		}
		return
	}

	d.responseCh <- domain.Response{ChatID: chatID, Text: text}
}
