package repository

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = stderrors.New("record not found")
	ErrDuplicate = stderrors.New("duplicate key")
)

// wrap converts gorm's sentinel errors into the repository ones and attaches
// a stack to every other failure.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return errors.WithStack(err)
}
