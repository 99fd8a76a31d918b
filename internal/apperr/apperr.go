package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping and logging.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindInvalid
	KindLimitExceeded
	KindAnalysisParse
	KindPersistence
	KindExtraction
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Msg != "" {
			return fmt.Sprintf("%s: %v", e.Msg, e.Err)
		}
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) error      { return &Error{Kind: KindNotFound, Msg: msg} }
func Forbidden(msg string) error     { return &Error{Kind: KindForbidden, Msg: msg} }
func Unauthorized(msg string) error  { return &Error{Kind: KindUnauthorized, Msg: msg} }
func Invalid(msg string) error       { return &Error{Kind: KindInvalid, Msg: msg} }
func LimitExceeded(msg string) error { return &Error{Kind: KindLimitExceeded, Msg: msg} }

func AnalysisParse(err error) error {
	return &Error{Kind: KindAnalysisParse, Msg: "analysis response malformed", Err: err}
}

func Persistence(err error) error {
	return &Error{Kind: KindPersistence, Msg: "persistence failed", Err: err}
}

func Extraction(err error) error {
	return &Error{Kind: KindExtraction, Msg: "content extraction failed", Err: err}
}

// KindOf returns the classification of err, or KindInternal for
// errors outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to its response status code.
// Inaccessible-but-existing resources map to 403; truly absent to 404.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInvalid:
		return http.StatusBadRequest
	case KindLimitExceeded:
		return http.StatusPaymentRequired
	case KindAnalysisParse, KindExtraction:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
