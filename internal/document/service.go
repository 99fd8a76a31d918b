package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/access"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/analysis"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/apperr"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/audit"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/billing"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/models"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/usage"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/pkg/textextract"
)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// FileStore persists uploaded originals. Extraction works on the bytes
// in hand, so only the write path is needed here.
type FileStore interface {
	Upload(ctx context.Context, path string, data io.Reader, contentType string) (string, error)
}

// Enqueuer schedules background work after a document row exists.
type Enqueuer interface {
	EnqueueDocumentAnalyze(ctx context.Context, documentID uuid.UUID) error
	EnqueueEmbeddingIndex(ctx context.Context, documentID uuid.UUID) error
}

// Service owns the document lifecycle: creation (upload or paste),
// versioning, analysis persistence and document-scoped reads. Every
// entry point authorizes through the access guard.
type Service struct {
	db             *pgxpool.Pool
	guard          *access.Guard
	requester      *analysis.Requester
	billing        *billing.Service
	usage          *usage.Recorder
	audit          *audit.Service
	files          FileStore
	queue          Enqueuer
	persistTimeout time.Duration
}

func NewService(
	db *pgxpool.Pool,
	guard *access.Guard,
	requester *analysis.Requester,
	billingSvc *billing.Service,
	recorder *usage.Recorder,
	auditSvc *audit.Service,
	files FileStore,
	queue Enqueuer,
	persistTimeout time.Duration,
) *Service {
	if persistTimeout <= 0 {
		persistTimeout = 30 * time.Second
	}
	return &Service{
		db:             db,
		guard:          guard,
		requester:      requester,
		billing:        billingSvc,
		usage:          recorder,
		audit:          auditSvc,
		files:          files,
		queue:          queue,
		persistTimeout: persistTimeout,
	}
}

// CreateInput is a pasted-content creation request.
type CreateInput struct {
	Title         string
	Content       string
	ContentFormat string // HTML or TEXT
	GroupID       *uuid.UUID
	Async         bool
}

// UploadInput is a multipart file-upload creation request.
type UploadInput struct {
	Title    string
	FileName string
	FileType string
	Data     []byte
	GroupID  *uuid.UUID
	Async    bool
}

// CreateFromText starts a new lineage from pasted content. HTML is
// reduced to plain text before analysis; the original markup is kept
// as the stored content.
func (s *Service) CreateFromText(ctx context.Context, user *models.User, in CreateInput) (*models.Document, error) {
	if in.Title == "" {
		return nil, apperr.Invalid("title is required")
	}
	format := in.ContentFormat
	if format == "" {
		format = models.ContentFormatText
	}
	if format != models.ContentFormatText && format != models.ContentFormatHTML {
		return nil, apperr.Invalid("content_format must be TEXT or HTML")
	}

	doc := &models.Document{
		Title:         in.Title,
		Content:       in.Content,
		ContentFormat: format,
		UserID:        user.ID,
		GroupID:       in.GroupID,
	}
	return s.createLineage(ctx, user, doc, s.analyzableText(doc), in.Async)
}

// CreateFromUpload stores the original file, extracts its text and
// starts a new lineage from the extraction.
func (s *Service) CreateFromUpload(ctx context.Context, user *models.User, in UploadInput) (*models.Document, error) {
	if !textextract.Supported(in.FileType) {
		return nil, apperr.Invalid(fmt.Sprintf("unsupported file type %q", in.FileType))
	}

	res, err := textextract.Extract(bytes.NewReader(in.Data), int64(len(in.Data)), in.FileType)
	if err != nil {
		return nil, apperr.Extraction(err)
	}

	title := in.Title
	if title == "" {
		title = in.FileName
	}

	doc := &models.Document{
		Title:         title,
		Content:       res.Content,
		ContentFormat: models.ContentFormatText,
		FileName:      in.FileName,
		FileType:      res.Format,
		FileSizeBytes: int64(len(in.Data)),
		UserID:        user.ID,
		GroupID:       in.GroupID,
	}

	if s.files != nil {
		path := fmt.Sprintf("%s/%s/%s", user.ID, uuid.New(), in.FileName)
		url, err := s.files.Upload(ctx, path, bytes.NewReader(in.Data), mimeFor(res.Format))
		if err != nil {
			// Analysis does not depend on the stored original.
			slog.Warn("store uploaded file", "error", err, "file", in.FileName)
		} else {
			doc.FileURL = url
		}
	}

	return s.createLineage(ctx, user, doc, res.Content, in.Async)
}

// CreateVersion appends a new version to an existing lineage. The
// caller must be able to access the parent document.
func (s *Service) CreateVersion(ctx context.Context, user *models.User, parentID uuid.UUID, in CreateInput) (*models.Document, error) {
	parent, err := s.authorize(ctx, user, parentID)
	if err != nil {
		return nil, err
	}
	rootID, err := s.lineageRoot(ctx, s.db, parent.ID)
	if err != nil {
		return nil, err
	}
	if err := s.billing.CheckVersionQuota(ctx, user.ID, rootID); err != nil {
		return nil, err
	}

	title := in.Title
	if title == "" {
		title = parent.Title
	}
	format := in.ContentFormat
	if format == "" {
		format = parent.ContentFormat
	}

	doc := &models.Document{
		Title:         title,
		Content:       in.Content,
		ContentFormat: format,
		UserID:        user.ID,
		GroupID:       parent.GroupID,
	}
	text := s.analyzableText(doc)

	if in.Async {
		doc.Status = models.DocStatusPending
		err = pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
			return createNextVersion(ctx, tx, rootID, doc)
		})
		if err != nil {
			return nil, persistenceOrLimit(err)
		}
		s.afterCreate(ctx, user, doc, true)
		return doc, nil
	}

	payload, err := s.requester.Analyze(ctx, doc.Title, text)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()
	err = pgx.BeginFunc(txCtx, s.db, func(tx pgx.Tx) error {
		if err := createNextVersion(txCtx, tx, rootID, doc); err != nil {
			return err
		}
		return persistAnalysis(txCtx, tx, doc, payload)
	})
	if err != nil {
		return nil, persistenceOrLimit(err)
	}
	s.afterCreate(ctx, user, doc, false)
	return doc, nil
}

// createLineage runs quota checks and both creation modes for a brand
// new lineage. For the synchronous mode the model payload is fetched
// before the transaction opens; nothing is written if the model call
// fails.
func (s *Service) createLineage(ctx context.Context, user *models.User, doc *models.Document, text string, async bool) (*models.Document, error) {
	if err := s.billing.CheckDocumentQuota(ctx, user.ID); err != nil {
		return nil, err
	}

	if async {
		doc.Status = models.DocStatusPending
		err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
			return createInitialVersion(ctx, tx, doc)
		})
		if err != nil {
			return nil, persistenceOrLimit(err)
		}
		s.afterCreate(ctx, user, doc, true)
		return doc, nil
	}

	payload, err := s.requester.Analyze(ctx, doc.Title, text)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()
	err = pgx.BeginFunc(txCtx, s.db, func(tx pgx.Tx) error {
		if err := createInitialVersion(txCtx, tx, doc); err != nil {
			return err
		}
		return persistAnalysis(txCtx, tx, doc, payload)
	})
	if err != nil {
		return nil, persistenceOrLimit(err)
	}
	s.afterCreate(ctx, user, doc, false)
	return doc, nil
}

// afterCreate runs the post-commit side effects: usage counters, audit
// trail and background jobs. None of them can fail the request; the
// transaction has already committed.
func (s *Service) afterCreate(ctx context.Context, user *models.User, doc *models.Document, async bool) {
	if doc.VersionNumber == 1 {
		s.usage.DocumentCreated(ctx, user.ID)
	} else {
		s.usage.VersionCreated(ctx, user.ID)
	}

	action := audit.ActionDocumentCreated
	if doc.VersionNumber > 1 {
		action = audit.ActionVersionCreated
	}
	if err := s.audit.Log(ctx, audit.LogEntry{
		Action:       action,
		ResourceType: "document",
		ResourceID:   &doc.ID,
		Details:      map[string]interface{}{"version": doc.VersionNumber},
	}); err != nil {
		slog.Warn("write audit log", "error", err, "document_id", doc.ID)
	}

	if s.queue == nil {
		return
	}
	if async {
		if err := s.queue.EnqueueDocumentAnalyze(ctx, doc.ID); err != nil {
			slog.Error("enqueue analysis", "error", err, "document_id", doc.ID)
		}
	}
	if err := s.queue.EnqueueEmbeddingIndex(ctx, doc.ID); err != nil {
		slog.Warn("enqueue embedding", "error", err, "document_id", doc.ID)
	}
}

// Analyze runs the model for an existing document and persists the
// fan-out. Used by the background worker; also reached through the
// re-analysis endpoint.
func (s *Service) Analyze(ctx context.Context, docID uuid.UUID) error {
	doc, err := s.getByID(ctx, docID)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx,
		`UPDATE documents SET status = $1 WHERE id = $2`,
		models.DocStatusAnalyzing, docID,
	); err != nil {
		return fmt.Errorf("mark analyzing: %w", err)
	}

	payload, err := s.requester.Analyze(ctx, doc.Title, s.analyzableText(doc))
	if err != nil {
		s.markFailed(ctx, docID)
		return err
	}
	if err := s.PersistAnalysisFor(ctx, doc, payload); err != nil {
		s.markFailed(ctx, docID)
		return err
	}

	if err := s.audit.Log(ctx, audit.LogEntry{
		Action:       audit.ActionAnalysisCompleted,
		ResourceType: "document",
		ResourceID:   &docID,
	}); err != nil {
		slog.Warn("write audit log", "error", err, "document_id", docID)
	}
	return nil
}

// RequestReanalysis queues a fresh model pass for a document the user
// can access. Falls back to running inline when no queue is wired.
func (s *Service) RequestReanalysis(ctx context.Context, user *models.User, docID uuid.UUID) error {
	if _, err := s.authorize(ctx, user, docID); err != nil {
		return err
	}
	if s.queue == nil {
		return s.Analyze(ctx, docID)
	}
	if _, err := s.db.Exec(ctx,
		`UPDATE documents SET status = $1 WHERE id = $2`,
		models.DocStatusPending, docID,
	); err != nil {
		return fmt.Errorf("mark pending: %w", err)
	}
	return s.queue.EnqueueDocumentAnalyze(ctx, docID)
}

func (s *Service) markFailed(ctx context.Context, docID uuid.UUID) {
	if _, err := s.db.Exec(ctx,
		`UPDATE documents SET status = $1 WHERE id = $2`,
		models.DocStatusFailed, docID,
	); err != nil {
		slog.Error("mark document failed", "error", err, "document_id", docID)
	}
}

// Get returns a document the user may access.
func (s *Service) Get(ctx context.Context, user *models.User, docID uuid.UUID) (*models.Document, error) {
	return s.authorize(ctx, user, docID)
}

// List returns the caller's latest document versions, newest first.
func (s *Service) List(ctx context.Context, user *models.User, limit, offset int) ([]models.Document, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.Query(ctx,
		selectDocument+` WHERE user_id = $1 AND is_latest ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		user.ID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

const selectDocument = `SELECT id, title, content, content_format,
	COALESCE(file_name, ''), COALESCE(file_url, ''), COALESCE(file_type, ''),
	COALESCE(file_size_bytes, 0), user_id, group_id, version_number,
	is_latest, root_document_id, feedback_id, status, created_at
	FROM documents`

func scanDocument(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.ContentFormat,
		&doc.FileName, &doc.FileURL, &doc.FileType, &doc.FileSizeBytes,
		&doc.UserID, &doc.GroupID, &doc.VersionNumber, &doc.IsLatest,
		&doc.RootDocumentID, &doc.FeedbackID, &doc.Status, &doc.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Service) getByID(ctx context.Context, docID uuid.UUID) (*models.Document, error) {
	doc, err := scanDocument(s.db.QueryRow(ctx, selectDocument+` WHERE id = $1`, docID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("document not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return doc, nil
}

// authorize loads a document and applies the access rule. Absent
// documents read as 404; existing-but-inaccessible as 403.
func (s *Service) authorize(ctx context.Context, user *models.User, docID uuid.UUID) (*models.Document, error) {
	doc, err := s.getByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	ok, err := s.guard.CanAccess(ctx, user, doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("no access to this document")
	}
	return doc, nil
}

// analyzableText is what the model sees: plain text, with any HTML
// markup stripped first.
func (s *Service) analyzableText(doc *models.Document) string {
	if doc.ContentFormat == models.ContentFormatHTML {
		return textextract.StripTags(doc.Content)
	}
	return doc.Content
}

// persistenceOrLimit wraps a transaction failure, keeping an app error
// (quota, integrity log) intact when one caused the rollback.
func persistenceOrLimit(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		// Unique violation on (root_document_id, version_number): a
		// concurrent writer won the race despite the advisory lock.
		return apperr.Persistence(fmt.Errorf("concurrent version write: %w", err))
	}
	return apperr.Persistence(err)
}

func mimeFor(format string) string {
	switch format {
	case "pdf":
		return "application/pdf"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/plain"
	}
}
