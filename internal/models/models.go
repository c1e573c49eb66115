package models

import "time"

// UploadedPaper is the metadata returned to the client after upload. The
// stored file stays on disk until the analysis that references it completes.
type UploadedPaper struct {
	FileID       string `json:"file_id"`
	OriginalName string `json:"original_name"`
	Subject      string `json:"subject"`
	Year         string `json:"year"`
	NeedsOCR     bool   `json:"needs_ocr"`
}

// ParsedPaper carries a paper's extracted (or OCR'd) text for the duration
// of one analysis request.
type ParsedPaper struct {
	Text         string `json:"text"`
	Subject      string `json:"subject"`
	Year         string `json:"year"`
	OriginalName string `json:"original_name"`
}

// AnalysisResult is immutable once produced.
type AnalysisResult struct {
	Analysis     string    `json:"analysis"`
	ProviderUsed string    `json:"provider_used"`
	Timestamp    time.Time `json:"timestamp"`
	Prompt       string    `json:"prompt"`
	PapersText   string    `json:"papers_text"`
}

// PaperMeta is the per-paper metadata stored alongside a history record.
type PaperMeta struct {
	OriginalName string `json:"original_name"`
	Subject      string `json:"subject"`
	Year         string `json:"year"`
	NeedsOCR     bool   `json:"needs_ocr"`
}

// HistoryRecord is an AnalysisResult persisted for a user.
type HistoryRecord struct {
	HistoryID    string      `json:"history_id"`
	UserID       string      `json:"user_id"`
	Papers       []PaperMeta `json:"papers"`
	Prompt       string      `json:"prompt"`
	PapersText   string      `json:"papers_text"`
	Analysis     string      `json:"analysis"`
	ProviderUsed string      `json:"provider_used"`
	CreatedAt    time.Time   `json:"created_at"`
}

type User struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	LastLogin    time.Time `json:"last_login"`
	CreatedAt    time.Time `json:"created_at"`
}
