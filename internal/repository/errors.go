// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers to distinguish
// between a missing row, a unique-key collision and a genuine store
// failure without inspecting driver errors themselves.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a unique
// index, for example a reservation code or restaurant slug that is
// already taken.
var ErrDuplicate = errors.New("duplicate key")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a unique-key violation.  SQLite's
// message is matched as well so the repositories behave the same in tests.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
