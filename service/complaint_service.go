package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"herelaw-backend/document"
	"herelaw-backend/llm"
	"herelaw-backend/models"
	"herelaw-backend/quality"
	"herelaw-backend/storage"

	"github.com/google/uuid"
)

const (
	defaultGenerationTimeout = 120 * time.Second
	excerptsPerDocType       = 2
)

// excerptDocTypes are searched in this order for reference excerpts
var excerptDocTypes = []models.ReferenceDocType{
	models.DocTypeClaimPurpose,
	models.DocTypeClaimGrounds,
}

// ComplaintService generates, edits and exports complaints
type ComplaintService struct {
	sessions          SessionStore
	files             FileStore
	storage           storage.Storage
	completer         llm.Completer
	bestPractices     BestPracticeProvider
	retriever         Retriever
	activity          ActivityStore
	levels            LevelRefresher
	generationTimeout time.Duration
	now               func() time.Time
}

// ComplaintServiceOption is a functional option for ComplaintService
type ComplaintServiceOption func(*ComplaintService)

// ComplaintWithSessionStore sets the session store
func ComplaintWithSessionStore(store SessionStore) ComplaintServiceOption {
	return func(s *ComplaintService) {
		s.sessions = store
	}
}

// ComplaintWithFileStore sets the file store used for exports
func ComplaintWithFileStore(store FileStore) ComplaintServiceOption {
	return func(s *ComplaintService) {
		s.files = store
	}
}

// ComplaintWithStorage sets the object storage used for exports
func ComplaintWithStorage(st storage.Storage) ComplaintServiceOption {
	return func(s *ComplaintService) {
		s.storage = st
	}
}

// ComplaintWithCompleter sets the completion client
func ComplaintWithCompleter(c llm.Completer) ComplaintServiceOption {
	return func(s *ComplaintService) {
		s.completer = c
	}
}

// ComplaintWithBestPractices sets the best-practice provider
func ComplaintWithBestPractices(p BestPracticeProvider) ComplaintServiceOption {
	return func(s *ComplaintService) {
		s.bestPractices = p
	}
}

// ComplaintWithRetriever sets the reference excerpt retriever
func ComplaintWithRetriever(r Retriever) ComplaintServiceOption {
	return func(s *ComplaintService) {
		s.retriever = r
	}
}

// ComplaintWithActivityLog sets the store that records generated complaints
func ComplaintWithActivityLog(store ActivityStore) ComplaintServiceOption {
	return func(s *ComplaintService) {
		s.activity = store
	}
}

// ComplaintWithLevelRefresher recomputes the author's level after each new session
func ComplaintWithLevelRefresher(r LevelRefresher) ComplaintServiceOption {
	return func(s *ComplaintService) {
		s.levels = r
	}
}

// ComplaintWithGenerationTimeout bounds a single completion call
func ComplaintWithGenerationTimeout(d time.Duration) ComplaintServiceOption {
	return func(s *ComplaintService) {
		s.generationTimeout = d
	}
}

// NewComplaintService creates a new complaint service
func NewComplaintService(opts ...ComplaintServiceOption) *ComplaintService {
	s := &ComplaintService{
		generationTimeout: defaultGenerationTimeout,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateComplaintRequest represents a request to draft a complaint
type GenerateComplaintRequest struct {
	UserID           uuid.UUID
	ConsultationText string
}

// GenerateComplaintResult represents a generated complaint
type GenerateComplaintResult struct {
	Session           *models.Session
	Content           string
	UsedBestPractices bool
	ReferenceCount    int
}

// GenerateComplaint drafts a complaint from a consultation transcript and stores it as a new session
func (s *ComplaintService) GenerateComplaint(ctx context.Context, req GenerateComplaintRequest) (*GenerateComplaintResult, error) {
	if s.sessions == nil {
		return nil, errors.New("session store not set")
	}
	if s.completer == nil {
		return nil, errors.New("completion client not set")
	}

	consultation := strings.TrimSpace(req.ConsultationText)
	if consultation == "" {
		return nil, fmt.Errorf("%w: consultation text is required", quality.ErrInvalidArgument)
	}

	bundle := s.loadBestPractices(ctx)
	excerpts := s.loadExcerpts(ctx, consultation)

	prompt := quality.ComposePrompt(bundle, consultation, excerpts)
	messages := quality.ComposeMessages(bundle, prompt)

	genCtx := ctx
	if s.generationTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.generationTimeout)
		defer cancel()
	}

	start := time.Now()
	content, err := s.completer.Complete(genCtx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", quality.ErrUpstreamFailure, err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: %w", quality.ErrUpstreamFailure, llm.ErrEmptyResponse)
	}

	slog.InfoContext(ctx, "complaint generated",
		"model", s.completer.Model(),
		"duration_ms", time.Since(start).Milliseconds(),
		"length", len([]rune(content)),
		"best_practices", bundle != nil,
		"excerpts", len(excerpts),
	)

	session := &models.Session{
		UserID:           req.UserID,
		ConsultationText: consultation,
		GeneratedContent: content,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	recordActivity(ctx, s.activity, req.UserID, models.ActionComplaintGenerate, map[string]string{"session_id": session.ID.String()})
	if s.levels != nil {
		if _, err := s.levels.RefreshLevel(ctx, req.UserID); err != nil {
			slog.WarnContext(ctx, "failed to refresh user level", "user_id", req.UserID, "error", err)
		}
	}

	return &GenerateComplaintResult{
		Session:           session,
		Content:           content,
		UsedBestPractices: bundle != nil,
		ReferenceCount:    len(excerpts),
	}, nil
}

// loadBestPractices returns nil when no bundle is available; generation proceeds with defaults
func (s *ComplaintService) loadBestPractices(ctx context.Context) *quality.BestPracticeBundle {
	if s.bestPractices == nil {
		return nil
	}
	bundle, err := s.bestPractices.BestPractices(ctx)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, quality.ErrDataUnavailable) {
			level = slog.LevelInfo
		}
		slog.Log(ctx, level, "best practices unavailable, using default guidelines", "error", err)
		return nil
	}
	return bundle
}

func (s *ComplaintService) loadExcerpts(ctx context.Context, consultation string) []string {
	if s.retriever == nil {
		return nil
	}
	var excerpts []string
	for _, docType := range excerptDocTypes {
		chunks, err := s.retriever.SimilarChunks(ctx, consultation, docType, excerptsPerDocType)
		if err != nil {
			if errors.Is(err, quality.ErrNotSupported) {
				return nil
			}
			slog.WarnContext(ctx, "reference retrieval failed", "doc_type", docType, "error", err)
			continue
		}
		excerpts = append(excerpts, chunks...)
	}
	return excerpts
}

// UpdateComplaintRequest represents a user edit of a generated complaint
type UpdateComplaintRequest struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	Content   string
}

// UpdateComplaintResult represents the edited session
type UpdateComplaintResult struct {
	Session *models.Session
}

// UpdateComplaint replaces the generated content of a session the user owns
func (s *ComplaintService) UpdateComplaint(ctx context.Context, req UpdateComplaintRequest) (*UpdateComplaintResult, error) {
	if s.sessions == nil {
		return nil, errors.New("session store not set")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", quality.ErrInvalidArgument)
	}

	session, err := ownedSession(ctx, s.sessions, req.SessionID, req.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.UpdateGeneratedContent(ctx, session.ID, req.Content); err != nil {
		return nil, notFound(err, ErrSessionNotFound)
	}
	session.GeneratedContent = req.Content

	return &UpdateComplaintResult{Session: session}, nil
}

// ExportComplaintRequest represents a request to export a complaint document
type ExportComplaintRequest struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
}

// ExportComplaintResult represents the stored document
type ExportComplaintResult struct {
	File *models.File
}

// ExportComplaint renders the session's complaint as a Word document and stores it
func (s *ComplaintService) ExportComplaint(ctx context.Context, req ExportComplaintRequest) (*ExportComplaintResult, error) {
	if s.sessions == nil {
		return nil, errors.New("session store not set")
	}
	if s.files == nil || s.storage == nil {
		return nil, errors.New("file storage not set")
	}

	session, err := ownedSession(ctx, s.sessions, req.SessionID, req.UserID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(session.GeneratedContent) == "" {
		return nil, fmt.Errorf("%w: session has no complaint to export", quality.ErrInvalidArgument)
	}

	now := s.now()
	var buf bytes.Buffer
	if err := document.RenderComplaint(&buf, session.GeneratedContent, now); err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}
	filename := fmt.Sprintf("complaint_%s%s", now.Format("20060102_150405"), document.Extension)

	fileID := uuid.New()
	storagePath, err := s.storage.Upload(ctx, fileID, filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}

	sessionID := session.ID
	file := &models.File{
		ID:          fileID,
		UserID:      req.UserID,
		SessionID:   &sessionID,
		Kind:        models.FileKindExport,
		Filename:    filename,
		MimeType:    storage.ContentType(filename),
		Size:        int64(buf.Len()),
		StoragePath: storagePath,
	}
	if err := s.files.Create(ctx, file); err != nil {
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			slog.WarnContext(ctx, "failed to clean up export", "path", storagePath, "error", delErr)
		}
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	return &ExportComplaintResult{File: file}, nil
}

// ownedSession loads a session and hides sessions that belong to someone else
func ownedSession(ctx context.Context, store SessionStore, id, userID uuid.UUID) (*models.Session, error) {
	session, err := store.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrSessionNotFound)
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
