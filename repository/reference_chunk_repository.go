package repository

import (
	"context"
	"fmt"

	"herelaw-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// ReferenceChunkRepository handles database operations for reference complaint chunks
type ReferenceChunkRepository struct {
	db         *pgxpool.Pool
	dimensions int
}

// NewReferenceChunkRepository creates a new reference chunk repository.
// dimensions must match the vector column of reference_chunks.
func NewReferenceChunkRepository(db *pgxpool.Pool, dimensions int) *ReferenceChunkRepository {
	return &ReferenceChunkRepository{db: db, dimensions: dimensions}
}

// toVector converts an embedding to the single-precision pgvector type
func toVector(embedding []float64) pgvector.Vector {
	values := make([]float32, len(embedding))
	for i, v := range embedding {
		values[i] = float32(v)
	}
	return pgvector.NewVector(values)
}

func (r *ReferenceChunkRepository) checkDimensions(embedding []float64) error {
	if r.dimensions > 0 && len(embedding) != r.dimensions {
		return fmt.Errorf("embedding must be %d dimensions, got %d", r.dimensions, len(embedding))
	}
	return nil
}

// Insert stores a chunk with its embedding
func (r *ReferenceChunkRepository) Insert(ctx context.Context, chunk *models.ReferenceChunk) error {
	if err := r.checkDimensions(chunk.Embedding); err != nil {
		return err
	}

	query := `
		INSERT INTO reference_chunks (doc_type, source_document, chunk_index, chunk_text, embedding)
		VALUES ($1, $2, $3, $4, $5::vector)
		ON CONFLICT (source_document, doc_type, chunk_index) DO UPDATE SET
			chunk_text = EXCLUDED.chunk_text,
			embedding = EXCLUDED.embedding
		RETURNING id`

	err := r.db.QueryRow(
		ctx, query,
		chunk.DocType,
		chunk.SourceDocument,
		chunk.ChunkIndex,
		chunk.Text,
		toVector(chunk.Embedding),
	).Scan(&chunk.ID)
	if err != nil {
		return fmt.Errorf("failed to insert reference chunk: %w", err)
	}
	return nil
}

// SearchByDocType returns the chunks of one section type nearest to the query embedding
func (r *ReferenceChunkRepository) SearchByDocType(
	ctx context.Context,
	embedding []float64,
	docType models.ReferenceDocType,
	limit int,
) ([]models.ReferenceChunk, error) {
	if err := r.checkDimensions(embedding); err != nil {
		return nil, err
	}

	query := `
		SELECT
			id,
			doc_type,
			source_document,
			chunk_index,
			chunk_text,
			embedding <=> $1::vector AS distance
		FROM reference_chunks
		WHERE doc_type = $2
		ORDER BY embedding <=> $1::vector
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, toVector(embedding), docType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.ReferenceChunk
	for rows.Next() {
		var chunk models.ReferenceChunk
		err := rows.Scan(
			&chunk.ID,
			&chunk.DocType,
			&chunk.SourceDocument,
			&chunk.ChunkIndex,
			&chunk.Text,
			&chunk.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reference chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reference chunks: %w", err)
	}

	return chunks, nil
}
