package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/mrlokans/kotoba/internal/entities"
)

// Translate maps gorm and driver errors onto the domain errors in entities.
// The driver error stays wrapped so callers can still inspect it.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, entities.ErrNotFound),
		errors.Is(err, entities.ErrConstraintViolation),
		errors.Is(err, entities.ErrStorageUnavailable),
		errors.Is(err, entities.ErrInvalidInput):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", entities.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", entities.ErrConstraintViolation, err)
	case errors.Is(err, context.Canceled):
		return err
	case isUnavailable(err):
		return fmt.Errorf("%w: %w", entities.ErrStorageUnavailable, err)
	case isConstraint(err):
		return fmt.Errorf("%w: %w", entities.ErrConstraintViolation, err)
	}
	return err
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr:
			return true
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, s := range []string{
		"database is closed",
		"database is locked",
		"connection refused",
		"bad connection",
		"failed to connect",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func isConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint failed") ||
		strings.Contains(msg, "violates unique constraint") ||
		strings.Contains(msg, "violates foreign key constraint")
}
