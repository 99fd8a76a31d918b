package document

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/apperr"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/models"
)

func TestPersistenceOrLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{
			name: "quota error passes through",
			err:  fmt.Errorf("tx: %w", apperr.LimitExceeded("document limit reached")),
			want: apperr.KindLimitExceeded,
		},
		{
			name: "integrity not-found passes through",
			err:  fmt.Errorf("tx: %w", apperr.NotFound("document not properly versioned")),
			want: apperr.KindNotFound,
		},
		{
			name: "unique violation becomes persistence",
			err:  &pgconn.PgError{Code: "23505"},
			want: apperr.KindPersistence,
		},
		{
			name: "plain failure becomes persistence",
			err:  errors.New("connection reset"),
			want: apperr.KindPersistence,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := persistenceOrLimit(tt.err)
			if kind := apperr.KindOf(got); kind != tt.want {
				t.Errorf("kind = %v, want %v", kind, tt.want)
			}
		})
	}
}

func TestAnalyzableText(t *testing.T) {
	s := &Service{}
	tests := []struct {
		name string
		doc  *models.Document
		want string
	}{
		{
			name: "plain text untouched",
			doc:  &models.Document{Content: "some  text", ContentFormat: models.ContentFormatText},
			want: "some  text",
		},
		{
			name: "html stripped",
			doc:  &models.Document{Content: "<p>Hello <b>world</b></p>", ContentFormat: models.ContentFormatHTML},
			want: "Hello world",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.analyzableText(tt.doc); got != tt.want {
				t.Errorf("analyzableText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMimeFor(t *testing.T) {
	if got := mimeFor("pdf"); got != "application/pdf" {
		t.Errorf("pdf mime = %q", got)
	}
	if got := mimeFor("txt"); got != "text/plain" {
		t.Errorf("txt mime = %q", got)
	}
}
