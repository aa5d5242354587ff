package service

import (
	"context"
	"errors"
	"io"

	"herelaw-backend/models"
	"herelaw-backend/storage"

	"github.com/google/uuid"
)

// FileService serves stored files back to their owners
type FileService struct {
	files   FileStore
	storage storage.Storage
}

// NewFileService creates a new file service
func NewFileService(files FileStore, st storage.Storage) *FileService {
	return &FileService{files: files, storage: st}
}

// OpenFile returns the metadata and content of a file the user owns.
// The caller closes the reader.
func (s *FileService) OpenFile(ctx context.Context, id, userID uuid.UUID) (*models.File, io.ReadCloser, error) {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(err, ErrFileNotFound)
	}
	if file.UserID != userID {
		return nil, nil, ErrFileNotFound
	}

	reader, err := s.storage.Download(ctx, file.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, err
	}
	return file, reader, nil
}
