package repository

import (
	"errors"
	"fmt"

	"go-dulceria-api/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate wraps unique violations other than order numbers
	ErrDuplicate = errors.New("duplicate key")
	// ErrOrderNumberTaken means the generated order number already exists
	ErrOrderNumberTaken = errors.New("order number already taken")
	// ErrInUse is returned for foreign key violations on delete
	ErrInUse = errors.New("record is referenced")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps gorm and PostgreSQL errors to repository errors
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if pgErr.ConstraintName == model.OrderNumberIndex {
				return ErrOrderNumberTaken
			}
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrInUse, pgErr.ConstraintName)
		}
	}
	return err
}
