package errors

import (
	"context"
	"errors"
	"regexp"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

// reKeyField extracts the column from a unique violation detail: "Key (field)=(value) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// MapStoreError maps user-store errors from either Postgres or MongoDB to AppError instances.
//   - context deadline/cancel → Timeout/Canceled
//   - pgx.ErrNoRows, mongo.ErrNoDocuments → NotFound
//   - unique violations, duplicate keys → Conflict
//   - everything else from a driver → Internal
//
// Errors that did not come from a store are returned unchanged.
func MapStoreError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Request was canceled.",
			Cause:   err,
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, mongo.ErrNoDocuments) {
		return &AppError{
			Code:    ErrCodeNotFound,
			Message: "Resource not found",
			Cause:   err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	if mongo.IsDuplicateKeyError(err) {
		return &AppError{
			Code:    ErrCodeConflict,
			Message: "This value already exists. Please choose a different one.",
			Field:   "username",
			Cause:   err,
		}
	}

	var cmdErr mongo.CommandError
	var writeErr mongo.WriteException
	if errors.As(err, &cmdErr) || errors.As(err, &writeErr) || mongo.IsNetworkError(err) {
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred. Please try again.",
			Cause:   err,
		}
	}

	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		field := pgErr.ColumnName
		if field == "" && pgErr.Detail != "" {
			if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
				field = m[1]
			}
		}
		return &AppError{
			Code:    ErrCodeConflict,
			Message: "This value already exists. Please choose a different one.",
			Field:   field,
			Cause:   pgErr,
		}
	case pgerrcode.NotNullViolation, pgerrcode.CheckViolation, pgerrcode.StringDataRightTruncationDataException:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "Invalid data. Please check your input.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	default:
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred. Please try again.",
			Cause:   pgErr,
		}
	}
}
