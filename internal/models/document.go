package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ContentFormatHTML = "HTML"
	ContentFormatText = "TEXT"
)

const (
	DocStatusPending   = "pending"
	DocStatusAnalyzing = "analyzing"
	DocStatusReady     = "ready"
	DocStatusFailed    = "failed"
)

// Document is one immutable version of a logical document. All versions
// of a lineage share RootDocumentID; version 1 points at itself.
type Document struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Content        string     `json:"content" db:"content"`
	ContentFormat  string     `json:"content_format" db:"content_format"`
	FileName       string     `json:"file_name,omitempty" db:"file_name"`
	FileURL        string     `json:"file_url,omitempty" db:"file_url"`
	FileType       string     `json:"file_type,omitempty" db:"file_type"`
	FileSizeBytes  int64      `json:"file_size_bytes,omitempty" db:"file_size_bytes"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	GroupID        *uuid.UUID `json:"group_id,omitempty" db:"group_id"`
	VersionNumber  int        `json:"version_number" db:"version_number"`
	IsLatest       bool       `json:"is_latest" db:"is_latest"`
	RootDocumentID uuid.UUID  `json:"root_document_id" db:"root_document_id"`
	FeedbackID     *uuid.UUID `json:"feedback_id,omitempty" db:"feedback_id"`
	Status         string     `json:"status" db:"status"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// DocumentVersion is a ledger row mapping a lineage root to one of its
// versions. One row per document ever created.
type DocumentVersion struct {
	ID             uuid.UUID `json:"id" db:"id"`
	RootDocumentID uuid.UUID `json:"root_document_id" db:"root_document_id"`
	DocumentID     uuid.UUID `json:"document_id" db:"document_id"`
	VersionNumber  int       `json:"version_number" db:"version_number"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// VersionInfo is a ledger entry resolved to display fields for listing.
type VersionInfo struct {
	DocumentID    uuid.UUID `json:"document_id"`
	VersionNumber int       `json:"version_number"`
	Title         string    `json:"title"`
	IsLatest      bool      `json:"is_latest"`
	AuthorID      uuid.UUID `json:"author_id"`
	AuthorName    string    `json:"author_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
