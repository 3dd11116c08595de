// Package apperror carries the error taxonomy shared by every layer:
// validation and stock errors are raised before any write, remote errors
// wrap store failures that may follow partial writes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

type Kind int

const (
	KindRemote Kind = iota
	KindValidation
	KindInsufficientStock
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindUnavailable
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "remote"
	}
}

func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindInsufficientStock:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

type Error struct {
	Kind   Kind
	Field  string
	Detail string
	Err    error
	// MessageID overrides the localized message picked from Kind.
	MessageID string
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// ErrInvalidQuantity is returned whenever a mutation would drive stock below zero
// or a quantity is not a valid count.
var ErrInvalidQuantity = &Error{Kind: KindValidation, Field: "quantity", Detail: "invalid quantity"}

func Validation(field, detail string) error {
	return &Error{Kind: KindValidation, Field: field, Detail: detail}
}

func InsufficientStock(product string, available, requested int) error {
	return &Error{
		Kind:   KindInsufficientStock,
		Detail: fmt.Sprintf("%s: available %d, requested %d", product, available, requested),
	}
}

func NotFound(what, id string) error {
	return &Error{Kind: KindNotFound, Detail: what + " " + id}
}

func Conflict(detail string) error {
	return &Error{Kind: KindConflict, Detail: detail}
}

func Unauthorized(detail string) error {
	return &Error{Kind: KindUnauthorized, Detail: detail}
}

func Forbidden(detail string) error {
	return &Error{Kind: KindForbidden, Detail: detail}
}

func Unavailable(detail, messageID string) error {
	return &Error{Kind: KindUnavailable, Detail: detail, MessageID: messageID}
}

func RateLimited(detail, messageID string, err error) error {
	return &Error{Kind: KindRateLimited, Detail: detail, MessageID: messageID, Err: err}
}

// Remote wraps a store or network failure. Postgres integrity violations are
// reclassified so callers see validation/conflict errors instead.
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return &Error{Kind: KindConflict, Detail: op, Err: err}
		case pgErrCheckViolation, pgErrNotNullViolation, pgErrForeignKeyViolation:
			return &Error{Kind: KindValidation, Detail: op, Err: err}
		}
	}
	return &Error{Kind: KindRemote, Detail: op, Err: err}
}

const (
	pgErrForeignKeyViolation = "23503"
	pgErrUniqueViolation     = "23505"
	pgErrCheckViolation      = "23514"
	pgErrNotNullViolation    = "23502"
)

// KindOf reports the kind of err, KindRemote for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindRemote
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
