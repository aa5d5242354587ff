package service

import (
	"context"
	"fmt"

	"herelaw-backend/llm"
	"herelaw-backend/models"
	"herelaw-backend/quality"
)

// Retriever returns reference excerpts similar to a query
type Retriever interface {
	SimilarChunks(ctx context.Context, query string, docType models.ReferenceDocType, k int) ([]string, error)
}

// VectorRetriever embeds the query and searches reference chunks by cosine distance
type VectorRetriever struct {
	embedder llm.Embedder
	chunks   ChunkSearcher
}

// NewVectorRetriever creates a retriever. A nil embedder yields ErrNotSupported on every call.
func NewVectorRetriever(embedder llm.Embedder, chunks ChunkSearcher) *VectorRetriever {
	return &VectorRetriever{embedder: embedder, chunks: chunks}
}

// SimilarChunks returns up to k chunk texts of docType, nearest first
func (r *VectorRetriever) SimilarChunks(ctx context.Context, query string, docType models.ReferenceDocType, k int) ([]string, error) {
	if r.embedder == nil || r.chunks == nil {
		return nil, quality.ErrNotSupported
	}
	if k <= 0 {
		return nil, nil
	}

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", quality.ErrUpstreamFailure, err)
	}

	chunks, err := r.chunks.SearchByDocType(ctx, embedding, docType, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", quality.ErrUpstreamFailure, err)
	}

	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}
	return texts, nil
}
