package repository

import (
	"context"
	"errors"

	"github.com/school-payroll-api/internal/domain"
	"gorm.io/gorm"
)

type txKey struct{}

// Transactor выполняет функцию в одной транзакции хранилища
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor создаёт транзактор поверх GORM
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

// WithinTransaction открывает транзакцию и кладёт её в контекст.
// Репозитории, получившие такой контекст, работают внутри неё.
// Вложенный вызов присоединяется к уже открытой транзакции.
func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	var fnErr error
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(context.WithValue(ctx, txKey{}, tx))
		return fnErr
	})
	if err != nil && fnErr == nil {
		// Ошибка begin/commit, а не бизнес-логики
		return domain.StorageError("commit transaction", err)
	}
	return err
}

// conn возвращает транзакцию из контекста или общий пул
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
