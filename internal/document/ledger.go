package document

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/apperr"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/audit"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/models"
)

// The ledger table document_versions is the source of truth for
// lineages. Every document ever created has exactly one ledger row;
// is_latest on the documents table is derived display state.

// lineageRoot resolves the lineage root for a document via its ledger
// row. A document with no ledger row is a data-integrity fault, not a
// user error in the ordinary sense.
func (s *Service) lineageRoot(ctx context.Context, q querier, docID uuid.UUID) (uuid.UUID, error) {
	var rootID uuid.UUID
	err := q.QueryRow(ctx,
		`SELECT root_document_id FROM document_versions WHERE document_id = $1`,
		docID,
	).Scan(&rootID)
	if errors.Is(err, pgx.ErrNoRows) {
		slog.Error("document missing from version ledger",
			"document_id", docID)
		// Audit through the pool, not q: the surrounding transaction is
		// about to roll back and the record must outlive it.
		if err := s.audit.Log(ctx, audit.LogEntry{
			Action:       audit.ActionIntegrityViolation,
			ResourceType: "document",
			ResourceID:   &docID,
			Details:      map[string]interface{}{"fault": "missing ledger row"},
		}); err != nil {
			slog.Warn("write audit log", "error", err, "document_id", docID)
		}
		return uuid.Nil, apperr.NotFound("document not properly versioned")
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve lineage root: %w", err)
	}
	return rootID, nil
}

// lockLineage serializes version creation per lineage for the duration
// of the transaction. Combined with UNIQUE(root_document_id,
// version_number) this makes concurrent version creation safe.
func lockLineage(ctx context.Context, tx pgx.Tx, rootID uuid.UUID) error {
	h := fnv.New64a()
	h.Write(rootID[:])
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(h.Sum64())); err != nil {
		return fmt.Errorf("lock lineage %s: %w", rootID, err)
	}
	return nil
}

// nextVersionNumber reads the highest ledger version for a lineage.
// Callers must hold the lineage lock.
func nextVersionNumber(ctx context.Context, tx pgx.Tx, rootID uuid.UUID) (int, error) {
	var max int
	err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version_number), 0) FROM document_versions WHERE root_document_id = $1`,
		rootID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("read max version: %w", err)
	}
	return max + 1, nil
}

func clearLatest(ctx context.Context, tx pgx.Tx, rootID uuid.UUID) error {
	if _, err := tx.Exec(ctx,
		`UPDATE documents SET is_latest = false WHERE root_document_id = $1`,
		rootID,
	); err != nil {
		return fmt.Errorf("clear latest flags: %w", err)
	}
	return nil
}

func insertDocument(ctx context.Context, tx pgx.Tx, doc *models.Document) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO documents
		   (id, title, content, content_format, file_name, file_url, file_type,
		    file_size_bytes, user_id, group_id, version_number, is_latest,
		    root_document_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING created_at`,
		doc.ID, doc.Title, doc.Content, doc.ContentFormat, doc.FileName,
		doc.FileURL, doc.FileType, doc.FileSizeBytes, doc.UserID, doc.GroupID,
		doc.VersionNumber, doc.IsLatest, doc.RootDocumentID, doc.Status,
	).Scan(&doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func insertLedgerRow(ctx context.Context, tx pgx.Tx, doc *models.Document) error {
	if _, err := tx.Exec(ctx,
		`INSERT INTO document_versions (id, root_document_id, document_id, version_number)
		 VALUES ($1, $2, $3, $4)`,
		uuid.New(), doc.RootDocumentID, doc.ID, doc.VersionNumber,
	); err != nil {
		return fmt.Errorf("insert ledger row: %w", err)
	}
	return nil
}

// createInitialVersion writes the first document of a new lineage plus
// its ledger row. The document references itself as lineage root.
func createInitialVersion(ctx context.Context, tx pgx.Tx, doc *models.Document) error {
	doc.ID = uuid.New()
	doc.RootDocumentID = doc.ID
	doc.VersionNumber = 1
	doc.IsLatest = true
	if err := insertDocument(ctx, tx, doc); err != nil {
		return err
	}
	return insertLedgerRow(ctx, tx, doc)
}

// createNextVersion appends a version to an existing lineage. It takes
// the lineage lock, computes max+1, demotes every prior version and
// writes the new document plus its ledger row.
func createNextVersion(ctx context.Context, tx pgx.Tx, rootID uuid.UUID, doc *models.Document) error {
	if err := lockLineage(ctx, tx, rootID); err != nil {
		return err
	}
	next, err := nextVersionNumber(ctx, tx, rootID)
	if err != nil {
		return err
	}
	if err := clearLatest(ctx, tx, rootID); err != nil {
		return err
	}

	doc.ID = uuid.New()
	doc.RootDocumentID = rootID
	doc.VersionNumber = next
	doc.IsLatest = true
	if err := insertDocument(ctx, tx, doc); err != nil {
		return err
	}
	return insertLedgerRow(ctx, tx, doc)
}

// ListVersions returns the lineage history for the given document,
// newest first. The listing is read-only and never mutates flags.
func (s *Service) ListVersions(ctx context.Context, user *models.User, docID uuid.UUID) ([]models.VersionInfo, error) {
	doc, err := s.authorize(ctx, user, docID)
	if err != nil {
		return nil, err
	}

	rootID, err := s.lineageRoot(ctx, s.db, doc.ID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT v.document_id, v.version_number, d.title, d.is_latest,
		        d.user_id, u.name, v.created_at
		 FROM document_versions v
		 JOIN documents d ON d.id = v.document_id
		 JOIN users u ON u.id = d.user_id
		 WHERE v.root_document_id = $1
		 ORDER BY v.version_number DESC`,
		rootID,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []models.VersionInfo
	for rows.Next() {
		var v models.VersionInfo
		if err := rows.Scan(&v.DocumentID, &v.VersionNumber, &v.Title,
			&v.IsLatest, &v.AuthorID, &v.AuthorName, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
