package util

import "errors"

var (
	ErrNoExtractableText = errors.New("no extractable text found in PDF")

	ErrNoPapers        = errors.New("no papers provided")
	ErrUnknownProvider = errors.New("unknown provider")
)
