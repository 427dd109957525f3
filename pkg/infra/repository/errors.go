package repository

import (
	"errors"

	"github.com/NeuralTrust/toolhub/pkg/domain"
	"gorm.io/gorm"
)

// wrapErr converts gorm failures into the store taxonomy. It expects the
// connection to run with TranslateError enabled.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NewStoreError(domain.StoreNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.NewStoreError(domain.StoreConstraintViolation, op, err)
	default:
		return domain.NewStoreError(domain.StoreConnectionFailed, op, err)
	}
}

func notFound(op string) error {
	return domain.NewStoreError(domain.StoreNotFound, op, gorm.ErrRecordNotFound)
}
