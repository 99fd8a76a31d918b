package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("document not found"), KindNotFound},
		{"forbidden", Forbidden("no access"), KindForbidden},
		{"limit", LimitExceeded("document quota reached"), KindLimitExceeded},
		{"parse", AnalysisParse(errors.New("unexpected end of JSON input")), KindAnalysisParse},
		{"persistence", Persistence(errors.New("deadline exceeded")), KindPersistence},
		{"extraction", Extraction(errors.New("open PDF: bad header")), KindExtraction},
		{"wrapped", fmt.Errorf("create version: %w", NotFound("no ledger entry")), KindNotFound},
		{"plain", errors.New("boom"), KindInternal},
		{"nil cause preserved", fmt.Errorf("outer: %w", Persistence(errors.New("inner"))), KindPersistence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Forbidden("x"), http.StatusForbidden},
		{Unauthorized("x"), http.StatusUnauthorized},
		{Invalid("x"), http.StatusBadRequest},
		{LimitExceeded("x"), http.StatusPaymentRequired},
		{AnalysisParse(errors.New("x")), http.StatusUnprocessableEntity},
		{Extraction(errors.New("x")), http.StatusUnprocessableEntity},
		{Persistence(errors.New("x")), http.StatusInternalServerError},
		{errors.New("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := AnalysisParse(errors.New("missing textMetrics"))
	want := "analysis response malformed: missing textMetrics"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	cause := errors.Unwrap(err)
	if cause == nil || cause.Error() != "missing textMetrics" {
		t.Errorf("Unwrap() = %v, want the original cause", cause)
	}
}
