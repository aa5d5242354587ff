package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"herelaw-backend/llm"
	"herelaw-backend/models"
	"herelaw-backend/quality"
	"herelaw-backend/storage"

	"github.com/google/uuid"
)

// MaxAudioSize is the largest recording accepted for transcription
const MaxAudioSize = 25 << 20

// ConsultationService turns recorded consultations into text
type ConsultationService struct {
	files       FileStore
	storage     storage.Storage
	transcriber llm.Transcriber
}

// ConsultationServiceOption is a functional option for ConsultationService
type ConsultationServiceOption func(*ConsultationService)

// ConsultationWithFileStore sets the file store
func ConsultationWithFileStore(store FileStore) ConsultationServiceOption {
	return func(s *ConsultationService) {
		s.files = store
	}
}

// ConsultationWithStorage sets the object storage for uploads
func ConsultationWithStorage(st storage.Storage) ConsultationServiceOption {
	return func(s *ConsultationService) {
		s.storage = st
	}
}

// ConsultationWithTranscriber sets the speech-to-text client
func ConsultationWithTranscriber(t llm.Transcriber) ConsultationServiceOption {
	return func(s *ConsultationService) {
		s.transcriber = t
	}
}

// NewConsultationService creates a new consultation service
func NewConsultationService(opts ...ConsultationServiceOption) *ConsultationService {
	s := &ConsultationService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TranscribeRequest represents an uploaded recording
type TranscribeRequest struct {
	UserID   uuid.UUID
	Filename string
	Audio    io.Reader
}

// TranscribeResult represents the stored recording and its transcript
type TranscribeResult struct {
	File *models.File
	Text string
}

// Transcribe stores the recording and converts it to text
func (s *ConsultationService) Transcribe(ctx context.Context, req TranscribeRequest) (*TranscribeResult, error) {
	if s.transcriber == nil {
		return nil, fmt.Errorf("%w: speech-to-text is not configured", quality.ErrNotSupported)
	}
	if s.files == nil || s.storage == nil {
		return nil, errors.New("file storage not set")
	}
	if !storage.IsAudio(req.Filename) {
		return nil, fmt.Errorf("%w: unsupported audio format %q", quality.ErrInvalidArgument, req.Filename)
	}

	data, err := io.ReadAll(io.LimitReader(req.Audio, MaxAudioSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: audio file is empty", quality.ErrInvalidArgument)
	}
	if len(data) > MaxAudioSize {
		return nil, fmt.Errorf("%w: audio exceeds %d bytes", quality.ErrInvalidArgument, MaxAudioSize)
	}

	fileID := uuid.New()
	storagePath, err := s.storage.Upload(ctx, fileID, req.Filename, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store audio: %w", err)
	}

	file := &models.File{
		ID:          fileID,
		UserID:      req.UserID,
		Kind:        models.FileKindConsultation,
		Filename:    req.Filename,
		MimeType:    storage.ContentType(req.Filename),
		Size:        int64(len(data)),
		StoragePath: storagePath,
	}
	if err := s.files.Create(ctx, file); err != nil {
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			slog.WarnContext(ctx, "failed to clean up audio", "path", storagePath, "error", delErr)
		}
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	text, err := s.transcriber.Transcribe(ctx, req.Filename, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", quality.ErrUpstreamFailure, err)
	}

	return &TranscribeResult{File: file, Text: strings.TrimSpace(text)}, nil
}
