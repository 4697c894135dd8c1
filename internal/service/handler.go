package service

import (
	"context"
	"log/slog"
	"reflect"
	"strings"

	"github.com/simp-lee/gospec/internal/domain"
	"github.com/simp-lee/gospec/internal/spec"
)

// Finder runs specifications against one entity type.
type Finder[T any] interface {
	FindOne(ctx context.Context, s spec.Specification, attrs ...string) (*T, error)
	FindAll(ctx context.Context, s spec.Specification, attrs ...string) (*spec.Page[T], error)
	Exists(ctx context.Context, s spec.Specification) (bool, error)
}

// Repository persists one entity type.
type Repository[T any, P domain.EntityPtr[T]] interface {
	Create(ctx context.Context, entity P) error
	Save(ctx context.Context, entity P) error
	FindByID(ctx context.Context, id uint) (P, error)
	Update(ctx context.Context, id uint, mutate func(P) error) (P, error)
	DeleteByID(ctx context.Context, id uint) error
}

// Invalidator is implemented by finders that keep derived state, such as a
// result cache, which must be dropped after a write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Handler implements the operations every entity service shares. S is the
// specification type its queries accept.
type Handler[T any, P domain.EntityPtr[T], S spec.Specification] struct {
	finder Finder[T]
	repo   Repository[T, P]
	logger *slog.Logger
	name   string
}

// NewHandler creates a Handler reading through finder and writing through repo.
func NewHandler[T any, P domain.EntityPtr[T], S spec.Specification](finder Finder[T], repo Repository[T, P], logger *slog.Logger) *Handler[T, P, S] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler[T, P, S]{
		finder: finder,
		repo:   repo,
		logger: logger,
		name:   strings.ToLower(reflect.TypeFor[T]().Name()),
	}
}

// Create persists a new entity.
func (h *Handler[T, P, S]) Create(ctx context.Context, entity P) (P, error) {
	if err := h.repo.Create(ctx, entity); err != nil {
		return nil, err
	}
	h.invalidate(ctx)
	return entity, nil
}

// Update loads the entity, applies mutate and saves it in one unit of work.
func (h *Handler[T, P, S]) Update(ctx context.Context, id uint, mutate func(P) error) (P, error) {
	entity, err := h.repo.Update(ctx, id, mutate)
	if err != nil {
		return nil, err
	}
	h.invalidate(ctx)
	return entity, nil
}

// Save writes entity as given.
func (h *Handler[T, P, S]) Save(ctx context.Context, entity P) (P, error) {
	if err := h.repo.Save(ctx, entity); err != nil {
		return nil, err
	}
	h.invalidate(ctx)
	return entity, nil
}

// Exists reports whether any entity matches s.
func (h *Handler[T, P, S]) Exists(ctx context.Context, s S) (bool, error) {
	return h.finder.Exists(ctx, s)
}

// Find returns the first entity matching s. No match is a NotFound error.
func (h *Handler[T, P, S]) Find(ctx context.Context, s S, attrs ...string) (P, error) {
	entity, err := h.finder.FindOne(ctx, s, attrs...)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, domain.NewAppError(domain.CodeNotFound, h.name+" not found", nil)
	}
	return P(entity), nil
}

// FindAll returns the page of entities selected by s.
func (h *Handler[T, P, S]) FindAll(ctx context.Context, s S, attrs ...string) (*spec.Page[T], error) {
	return h.finder.FindAll(ctx, s, attrs...)
}

// FindByID returns the entity with the given identity.
func (h *Handler[T, P, S]) FindByID(ctx context.Context, id uint) (P, error) {
	return h.repo.FindByID(ctx, id)
}

// Delete marks the entity deleted. The row stays until DeletePermanently.
func (h *Handler[T, P, S]) Delete(ctx context.Context, id uint) (P, error) {
	return h.flag(ctx, id, func(m *domain.BaseModel) { m.Deleted = true })
}

// Restore clears the deleted mark.
func (h *Handler[T, P, S]) Restore(ctx context.Context, id uint) (P, error) {
	return h.flag(ctx, id, func(m *domain.BaseModel) { m.Deleted = false })
}

// Archive marks the entity archived.
func (h *Handler[T, P, S]) Archive(ctx context.Context, id uint) (P, error) {
	return h.flag(ctx, id, func(m *domain.BaseModel) { m.Archived = true })
}

// UnArchive clears the archived mark.
func (h *Handler[T, P, S]) UnArchive(ctx context.Context, id uint) (P, error) {
	return h.flag(ctx, id, func(m *domain.BaseModel) { m.Archived = false })
}

// DeletePermanently removes the entity from the store.
func (h *Handler[T, P, S]) DeletePermanently(ctx context.Context, id uint) error {
	if err := h.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	h.invalidate(ctx)
	return nil
}

// RecycleBin lists deleted entities. Not supported by the generic handler.
func (h *Handler[T, P, S]) RecycleBin(context.Context, S) (*spec.Page[T], error) {
	return nil, domain.NewAppError(domain.CodeNotSupported, "recycle bin is not supported", nil)
}

// FindAllArchived lists archived entities. Not supported by the generic handler.
func (h *Handler[T, P, S]) FindAllArchived(context.Context, S) (*spec.Page[T], error) {
	return nil, domain.NewAppError(domain.CodeNotSupported, "archived listing is not supported", nil)
}

func (h *Handler[T, P, S]) flag(ctx context.Context, id uint, set func(*domain.BaseModel)) (P, error) {
	return h.Update(ctx, id, func(entity P) error {
		set(entity.Base())
		return nil
	})
}

// invalidate drops derived read state after a write. Failures are logged and
// otherwise ignored.
func (h *Handler[T, P, S]) invalidate(ctx context.Context) {
	inv, ok := h.finder.(Invalidator)
	if !ok {
		return
	}
	if err := inv.Invalidate(ctx); err != nil {
		h.logger.WarnContext(ctx, "cache invalidation failed",
			slog.String("entity", h.name),
			slog.Any("error", err),
		)
	}
}
