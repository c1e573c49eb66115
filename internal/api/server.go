package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Abhishek-bramhawale/PYQuer-server/internal/analysis"
	"github.com/Abhishek-bramhawale/PYQuer-server/internal/auth"
	"github.com/Abhishek-bramhawale/PYQuer-server/internal/models"
	"github.com/Abhishek-bramhawale/PYQuer-server/internal/providers"
	"github.com/Abhishek-bramhawale/PYQuer-server/internal/storage"
	"github.com/Abhishek-bramhawale/PYQuer-server/internal/util"
)

// Analyzer runs the paper pipeline. Satisfied by *analysis.Service.
type Analyzer interface {
	Analyze(ctx context.Context, userID string, refs []analysis.PaperRef, provider providers.Provider) (models.AnalysisResult, error)
}

// FileSaver stores uploaded bytes. Satisfied by *storage.FileStore.
type FileSaver interface {
	Save(data []byte) (string, error)
}

// OCRDetector checks a fresh upload's text layer. Satisfied by
// *ingest.Parser.
type OCRDetector interface {
	DetectNeedsOCR(data []byte) bool
}

// UserStore is the auth persistence boundary. Satisfied by
// *storage.UserRepo.
type UserStore interface {
	CreateUser(ctx context.Context, u models.User) error
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

// HistoryLister reads back persisted analyses. Satisfied by
// *storage.HistoryRepo.
type HistoryLister interface {
	ListHistoryByUser(ctx context.Context, userID string) ([]models.HistoryRecord, error)
}

type Server struct {
	log      zerolog.Logger
	analyzer Analyzer
	files    FileSaver
	detector OCRDetector
	users    UserStore
	history  HistoryLister
	tokens   *auth.Tokens
}

func NewServer(log zerolog.Logger, analyzer Analyzer, files FileSaver, detector OCRDetector, users UserStore, history HistoryLister, tokens *auth.Tokens) *Server {
	return &Server{
		log:      log,
		analyzer: analyzer,
		files:    files,
		detector: detector,
		users:    users,
		history:  history,
		tokens:   tokens,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/auth/register", s.handleRegister)
	mux.HandleFunc("/auth/login", s.handleLogin)
	mux.HandleFunc("/papers/upload", s.handleUpload)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/analyze/", s.handleAnalyzePinned)
	mux.HandleFunc("/history", s.handleHistory)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("name, email and password are required"))
		return
	}

	if _, err := s.users.GetUserByEmail(r.Context(), req.Email); err == nil {
		writeErr(w, http.StatusConflict, fmt.Errorf("email already registered"))
		return
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	user := models.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         "user",
	}
	// The pre-check above races with concurrent registrations; the unique
	// constraint is the authority.
	if err := s.users.CreateUser(r.Context(), user); errors.Is(err, storage.ErrEmailTaken) {
		writeErr(w, http.StatusConflict, err)
		return
	} else if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	token, err := s.tokens.Issue(user.UserID, user.Role, time.Now().UTC())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  map[string]any{"user_id": user.UserID, "name": user.Name, "email": user.Email, "role": user.Role},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, storage.ErrUserNotFound) || (err == nil && !auth.CheckPassword(user.PasswordHash, req.Password)) {
		writeErr(w, http.StatusUnauthorized, fmt.Errorf("invalid credentials"))
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	now := time.Now().UTC()
	if err := s.users.TouchLastLogin(r.Context(), user.UserID, now); err != nil {
		s.log.Warn().Str("user_id", user.UserID).Err(err).Msg("update last login")
	}

	token, err := s.tokens.Issue(user.UserID, user.Role, now)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  map[string]any{"user_id": user.UserID, "name": user.Name, "email": user.Email, "role": user.Role},
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	if err := r.ParseMultipartForm(128 << 20); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		if single, ok := firstSingleFile(r.MultipartForm.File); ok {
			files = append(files, single)
		}
	}
	if len(files) == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("no files provided"))
		return
	}

	subject := strings.TrimSpace(r.FormValue("subject"))
	year := strings.TrimSpace(r.FormValue("year"))
	if year == "" {
		year = "unknown"
	}

	out := make([]models.UploadedPaper, 0, len(files))
	for _, fh := range files {
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("%s: only pdf files are accepted", fh.Filename))
			return
		}
		data, err := readUpload(fh)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		fileID, err := s.files.Save(data)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		out = append(out, models.UploadedPaper{
			FileID:       fileID,
			OriginalName: fh.Filename,
			Subject:      subject,
			Year:         year,
			NeedsOCR:     s.detector.DetectNeedsOCR(data),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"papers": out})
}

type analyzeRequest struct {
	Papers   []analysis.PaperRef `json:"papers"`
	Provider string              `json:"provider"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	provider, err := providers.ParseProvider(req.Provider)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	s.runAnalysis(w, r, req.Papers, provider)
}

// handleAnalyzePinned serves the per-provider convenience endpoints
// /analyze/openai, /analyze/groq, /analyze/ollama.
func (s *Server) handleAnalyzePinned(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	provider, err := providers.ParseProvider(strings.TrimPrefix(r.URL.Path, "/analyze/"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	s.runAnalysis(w, r, req.Papers, provider)
}

func (s *Server) runAnalysis(w http.ResponseWriter, r *http.Request, refs []analysis.PaperRef, provider providers.Provider) {
	if len(refs) == 0 {
		writeErr(w, http.StatusBadRequest, util.ErrNoPapers)
		return
	}

	userID := ""
	if claims, ok := s.bearerClaims(r); ok {
		userID = claims.UserID
	}

	result, err := s.analyzer.Analyze(r.Context(), userID, refs, provider)
	if err != nil {
		var perr *providers.ProviderError
		switch {
		case errors.Is(err, util.ErrNoPapers), errors.Is(err, util.ErrUnknownProvider):
			writeErr(w, http.StatusBadRequest, err)
		case errors.As(err, &perr):
			writeErr(w, providerStatus(perr.Type()), err)
		default:
			writeErr(w, http.StatusInternalServerError, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"analysis":      result.Analysis,
		"provider_used": result.ProviderUsed,
		"timestamp":     result.Timestamp,
		"papers_text":   result.PapersText,
		"prompt":        result.Prompt,
	})
}

// providerStatus maps a classified provider failure to a response status.
// Quota, rate and transient failures are upstream conditions a client may
// retry against; an oversized context is the client's request; everything
// else is a server-side problem (bad key, wrong model name).
func providerStatus(t providers.ErrorType) int {
	switch t {
	case providers.ErrorQuota, providers.ErrorRate, providers.ErrorTransient:
		return http.StatusBadGateway
	case providers.ErrorContext:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	claims, ok := s.bearerClaims(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, fmt.Errorf("authentication required"))
		return
	}
	records, err := s.history.ListHistoryByUser(r.Context(), claims.UserID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": records})
}

func (s *Server) bearerClaims(r *http.Request) (auth.Claims, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return auth.Claims{}, false
	}
	claims, err := s.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return auth.Claims{}, false
	}
	return claims, true
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

func firstSingleFile(m map[string][]*multipart.FileHeader) (*multipart.FileHeader, bool) {
	for _, v := range m {
		if len(v) > 0 {
			return v[0], true
		}
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"status":  code,
			"message": err.Error(),
		},
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
