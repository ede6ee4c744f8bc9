package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserConflict    = errors.New("email or username already exists")
)

// isConflictError matches unique violations from drivers opened without
// TranslateError as well as the translated gorm.ErrDuplicatedKey.
func isConflictError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

func outcomeOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
