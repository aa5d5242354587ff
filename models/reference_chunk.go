package models

import (
	"github.com/google/uuid"
)

// ReferenceDocType is the complaint section a reference chunk supports
type ReferenceDocType string

const (
	DocTypeClaimPurpose ReferenceDocType = "claim_purpose" // 청구취지
	DocTypeClaimGrounds ReferenceDocType = "claim_grounds" // 청구원인
)

// ReferenceChunk represents a chunk of a reference complaint from the retrieval corpus
type ReferenceChunk struct {
	ID             uuid.UUID        `json:"id"`
	DocType        ReferenceDocType `json:"doc_type"`
	SourceDocument string           `json:"source_document"`
	ChunkIndex     int              `json:"chunk_index"`
	Text           string           `json:"text"`
	Embedding      []float64        `json:"-"`
	Distance       float64          `json:"distance,omitempty"` // Vector similarity distance
}
