package ingest

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Abhishek-bramhawale/PYQuer-server/internal/util"
)

// ExtractText pulls the embedded text layer out of a PDF. It is a pure
// function of the input bytes. A corrupt or image-only document is not an
// error worth surfacing here: both report util.ErrNoExtractableText so the
// caller can fall back to OCR.
func ExtractText(data []byte) (text string, err error) {
	// The pdf library panics on some malformed xref tables; treat that the
	// same as any other unreadable document.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = util.ErrNoExtractableText
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", util.ErrNoExtractableText
	}

	reader, err := r.GetPlainText()
	if err != nil {
		return "", util.ErrNoExtractableText
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return "", util.ErrNoExtractableText
	}

	text = util.SanitizeText(buf.String())
	if text == "" {
		return "", util.ErrNoExtractableText
	}
	return text, nil
}
