package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Abhishek-bramhawale/PYQuer-server/internal/models"
	"github.com/Abhishek-bramhawale/PYQuer-server/internal/util"
)

// Parser turns stored paper bytes into ParsedPaper text, preferring the
// direct text layer and falling back to OCR only when that layer is absent
// or unusable.
type Parser struct {
	ocr *OCREngine
	log zerolog.Logger
}

func NewParser(ocr *OCREngine, log zerolog.Logger) *Parser {
	return &Parser{ocr: ocr, log: log}
}

// DetectNeedsOCR reports whether a document's text layer is unusable. Run
// once at upload time so clients can warn about the slower OCR path.
func (p *Parser) DetectNeedsOCR(data []byte) bool {
	_, err := ExtractText(data)
	return err != nil
}

// ParsePaper extracts one paper's text. Direct extraction failure is not
// surfaced; it only routes the paper through OCR, reported by the returned
// usedOCR flag. An error here means both paths produced nothing.
func (p *Parser) ParsePaper(ctx context.Context, data []byte, meta models.PaperMeta) (paper models.ParsedPaper, usedOCR bool, err error) {
	text, err := ExtractText(data)
	if err != nil {
		if !errors.Is(err, util.ErrNoExtractableText) {
			return models.ParsedPaper{}, false, fmt.Errorf("extract %s: %w", meta.OriginalName, err)
		}
		p.log.Info().Str("paper", meta.OriginalName).Msg("no text layer, running ocr")
		usedOCR = true
		text, err = p.ocr.Recognize(ctx, data)
		if err != nil {
			return models.ParsedPaper{}, true, fmt.Errorf("ocr %s: %w", meta.OriginalName, err)
		}
	}
	return models.ParsedPaper{
		Text:         text,
		Subject:      meta.Subject,
		Year:         meta.Year,
		OriginalName: meta.OriginalName,
	}, usedOCR, nil
}
