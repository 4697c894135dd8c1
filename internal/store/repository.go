package store

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/gospec/internal/domain"
	"github.com/simp-lee/gospec/internal/pkg"
)

// createAttempts bounds the inserts tried when a derived key collides.
const createAttempts = 3

// keyColumn matches the sk/pk column or index name in a unique-violation message.
var keyColumn = regexp.MustCompile(`[._](sk|pk)\b`)

// Repository persists one entity type. T is the model and P its pointer type.
type Repository[T any, P domain.EntityPtr[T]] struct {
	db *gorm.DB
}

// NewRepository creates a Repository backed by the given GORM database.
func NewRepository[T any, P domain.EntityPtr[T]](db *gorm.DB) *Repository[T, P] {
	return &Repository[T, P]{db: db}
}

// Create inserts entity. When the insert collides on a derived key, fresh
// keys are generated and the insert is retried.
func (r *Repository[T, P]) Create(ctx context.Context, entity P) error {
	var err error
	for range createAttempts {
		err = r.db.WithContext(ctx).Create(entity).Error
		if err == nil || !isKeyCollision(err) {
			break
		}
		entity.Base().RegenerateKeys()
	}
	return mapError(err)
}

// Save writes every column of entity, inserting it when it has no identity.
func (r *Repository[T, P]) Save(ctx context.Context, entity P) error {
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// FindByID retrieves an entity by its primary key.
func (r *Repository[T, P]) FindByID(ctx context.Context, id uint) (P, error) {
	var m T
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, mapError(err)
	}
	return P(&m), nil
}

// Update loads the entity, applies mutate and saves it in one transaction.
// An error from mutate aborts the transaction and is returned unchanged.
func (r *Repository[T, P]) Update(ctx context.Context, id uint, mutate func(P) error) (P, error) {
	var out P
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		entity := P(new(T))
		if err := tx.First(entity, id).Error; err != nil {
			return mapError(err)
		}
		if err := mutate(entity); err != nil {
			return err
		}
		if err := tx.Save(entity).Error; err != nil {
			return mapError(err)
		}
		out = entity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByID removes the row permanently.
func (r *Repository[T, P]) DeleteByID(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(P(new(T)), id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeAlreadyExists, "already exists", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. Not every dialector translates driver errors to
// gorm.ErrDuplicatedKey (e.g. the pure-Go SQLite driver).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

// isKeyCollision reports whether err is a unique violation on sk or pk.
func isKeyCollision(err error) bool {
	return isDuplicateKeyError(err) && keyColumn.MatchString(strings.ToLower(err.Error()))
}
