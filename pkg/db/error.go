package db

import (
	"errors"

	"gorm.io/gorm"
)

// SQLite extended result codes for key conflicts, plus the primary constraint
// code reported when extended codes are off.
const (
	sqliteConstraint           = 19
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// IsDuplicateKey reports whether err is a unique or primary key conflict.
// Connections opened by New translate dialect errors into gorm.ErrDuplicatedKey.
// The in-memory test driver does not, so its result code is checked directly.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		switch coded.Code() {
		case sqliteConstraint, sqliteConstraintPrimaryKey, sqliteConstraintUnique:
			return true
		}
	}
	return false
}
