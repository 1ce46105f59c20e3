package repository

import (
	"errors"

	repo "atelier/internal/repository"

	"gorm.io/gorm"
)

// gormのエラーをrepositoryの共通エラーにそろえる
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repo.ErrDuplicate
	default:
		return err
	}
}
