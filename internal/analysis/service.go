package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Abhishek-bramhawale/PYQuer-server/internal/models"
	"github.com/Abhishek-bramhawale/PYQuer-server/internal/providers"
	"github.com/Abhishek-bramhawale/PYQuer-server/internal/util"
)

// PaperParser turns stored bytes into paper text. Satisfied by
// *ingest.Parser.
type PaperParser interface {
	ParsePaper(ctx context.Context, data []byte, meta models.PaperMeta) (models.ParsedPaper, bool, error)
}

// FileStore is the stored-upload boundary the pipeline consumes.
type FileStore interface {
	Read(fileID string) ([]byte, error)
	Delete(fileID string) error
}

// HistoryStore persists finished analyses. Best-effort from the pipeline's
// point of view.
type HistoryStore interface {
	SaveHistory(ctx context.Context, rec models.HistoryRecord) error
}

// PaperRef identifies one uploaded paper within an analysis request.
type PaperRef struct {
	FileID       string `json:"file_id"`
	OriginalName string `json:"original_name"`
	Subject      string `json:"subject"`
	Year         string `json:"year"`
}

// Service runs the full pipeline for one request: load, parse, classify,
// assemble, dispatch, persist.
type Service struct {
	parser     PaperParser
	dispatcher *providers.Dispatcher
	files      FileStore
	history    HistoryStore
	log        zerolog.Logger
}

func NewService(parser PaperParser, dispatcher *providers.Dispatcher, files FileStore, history HistoryStore, log zerolog.Logger) *Service {
	return &Service{
		parser:     parser,
		dispatcher: dispatcher,
		files:      files,
		history:    history,
		log:        log,
	}
}

// Analyze processes the referenced papers in order and returns the
// provider's analysis. Stored files are deleted once the analysis has
// completed; deletion and history persistence failures are logged, never
// propagated. userID may be empty for anonymous requests.
func (s *Service) Analyze(ctx context.Context, userID string, refs []PaperRef, provider providers.Provider) (models.AnalysisResult, error) {
	if len(refs) == 0 {
		return models.AnalysisResult{}, util.ErrNoPapers
	}

	completed := false
	defer func() {
		if !completed {
			return
		}
		for _, ref := range refs {
			if err := s.files.Delete(ref.FileID); err != nil {
				s.log.Warn().Str("file_id", ref.FileID).Err(err).Msg("delete analyzed file")
			}
		}
	}()

	parsed := make([]models.ParsedPaper, 0, len(refs))
	metas := make([]models.PaperMeta, 0, len(refs))
	for _, ref := range refs {
		data, err := s.files.Read(ref.FileID)
		if err != nil {
			return models.AnalysisResult{}, fmt.Errorf("read paper %s: %w", ref.OriginalName, err)
		}
		meta := models.PaperMeta{
			OriginalName: ref.OriginalName,
			Subject:      ref.Subject,
			Year:         ref.Year,
		}
		paper, usedOCR, err := s.parser.ParsePaper(ctx, data, meta)
		if err != nil {
			return models.AnalysisResult{}, err
		}
		meta.NeedsOCR = usedOCR
		parsed = append(parsed, paper)
		metas = append(metas, meta)
	}

	technical := IsTechnicalBatch(parsed)
	papersText := AssemblePapers(parsed)
	prompt := BuildPrompt(papersText, technical)

	analysis, err := s.dispatcher.Generate(ctx, provider, prompt)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	result := models.AnalysisResult{
		Analysis:     analysis,
		ProviderUsed: string(provider),
		Timestamp:    time.Now().UTC(),
		Prompt:       prompt,
		PapersText:   papersText,
	}
	completed = true

	if userID != "" && s.history != nil {
		rec := models.HistoryRecord{
			UserID:       userID,
			Papers:       metas,
			Prompt:       result.Prompt,
			PapersText:   result.PapersText,
			Analysis:     result.Analysis,
			ProviderUsed: result.ProviderUsed,
			CreatedAt:    result.Timestamp,
		}
		if err := s.history.SaveHistory(ctx, rec); err != nil {
			s.log.Warn().Str("user_id", userID).Err(err).Msg("save analysis history")
		}
	}

	return result, nil
}
