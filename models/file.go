package models

import (
	"time"

	"github.com/google/uuid"
)

// FileKind distinguishes uploaded consultation material from exported complaints
type FileKind string

const (
	FileKindConsultation FileKind = "consultation"
	FileKindExport       FileKind = "export"
)

// File represents a file entity
type File struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	SessionID   *uuid.UUID `json:"session_id,omitempty"`
	Kind        FileKind   `json:"kind"`
	Filename    string     `json:"filename"`
	MimeType    string     `json:"mime_type"`
	Size        int64      `json:"size"`
	StoragePath string     `json:"storage_path"`
	CreatedAt   time.Time  `json:"created_at"`
}
