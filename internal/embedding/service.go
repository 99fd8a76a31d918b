package embedding

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/llm"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/pkg/chunker"
)

// Service maintains one embedding per document version and answers
// similarity queries across lineages. Indexing runs off the request
// path; a missing embedding only degrades similarity results.
type Service struct {
	db    *pgxpool.Pool
	gw    llm.Gateway
	model string
}

func NewService(db *pgxpool.Pool, gw llm.Gateway, model string) *Service {
	return &Service{db: db, gw: gw, model: model}
}

type SimilarDocument struct {
	DocumentID     uuid.UUID `json:"document_id"`
	RootDocumentID uuid.UUID `json:"root_document_id"`
	Title          string    `json:"title"`
	Score          float64   `json:"score"`
}

// IndexDocument embeds the version's content and upserts it. Long
// content is chunked and the chunk vectors averaged.
func (s *Service) IndexDocument(ctx context.Context, docID uuid.UUID, content string) error {
	if content == "" {
		return nil
	}

	chunks := chunker.Split(content, chunker.Options{MaxRunes: 2000})
	inputs := make([]string, 0, len(chunks))
	for _, c := range chunks {
		inputs = append(inputs, c.Content)
	}
	if len(inputs) == 0 {
		return nil
	}

	resp, err := s.gw.Embed(ctx, llm.EmbeddingRequest{Model: s.model, Input: inputs})
	if err != nil {
		return fmt.Errorf("embed document %s: %w", docID, err)
	}
	if len(resp.Embeddings) == 0 {
		return fmt.Errorf("embed document %s: empty response", docID)
	}

	vec := meanVector(resp.Embeddings)

	_, err = s.db.Exec(ctx,
		`INSERT INTO document_embeddings (document_id, embedding, token_count)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (document_id) DO UPDATE SET embedding = $2, token_count = $3`,
		docID, pgvector.NewVector(vec), resp.Tokens,
	)
	if err != nil {
		return fmt.Errorf("upsert embedding: %w", err)
	}
	return nil
}

// SimilarDocuments returns the nearest other lineages to the given
// version, excluding the document's own lineage.
func (s *Service) SimilarDocuments(ctx context.Context, docID uuid.UUID, limit int) ([]SimilarDocument, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(ctx,
		`SELECT d.id, d.root_document_id, d.title,
		        1 - (e.embedding <=> me.embedding) AS score
		 FROM document_embeddings me
		 JOIN document_embeddings e ON e.document_id <> me.document_id
		 JOIN documents d ON d.id = e.document_id
		 WHERE me.document_id = $1
		   AND d.is_latest
		   AND d.root_document_id <> (SELECT root_document_id FROM documents WHERE id = $1)
		 ORDER BY e.embedding <=> me.embedding
		 LIMIT $2`,
		docID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	var results []SimilarDocument
	for rows.Next() {
		var r SimilarDocument
		if err := rows.Scan(&r.DocumentID, &r.RootDocumentID, &r.Title, &r.Score); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, nil
}

func meanVector(vectors [][]float32) []float32 {
	out := make([]float32, len(vectors[0]))
	for _, v := range vectors {
		for i := range out {
			out[i] += v[i]
		}
	}
	n := float32(len(vectors))
	for i := range out {
		out[i] /= n
	}
	return out
}
