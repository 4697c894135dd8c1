package contact

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/gospec/internal/domain"
	"github.com/simp-lee/gospec/internal/querycache"
	"github.com/simp-lee/gospec/internal/service"
	"github.com/simp-lee/gospec/internal/store"
)

// ContactModule implements the app.Module interface for the contact domain.
type ContactModule struct {
	handler *ContactHandler
}

// Deps holds what the contact module is built from.
type Deps struct {
	DB     *gorm.DB
	Logger *slog.Logger
	// Cache enables the query result cache when non-nil.
	Cache     querycache.Store
	CacheTTL  time.Duration
	Namespace string
}

// New wires executor, optional result cache, repository and service into a
// ready ContactModule.
func New(deps Deps) (*ContactModule, error) {
	if deps.DB == nil {
		return nil, errors.New("contact: db is nil")
	}

	exec, err := store.NewExecutor[domain.Contact](deps.DB)
	if err != nil {
		return nil, fmt.Errorf("contact: %w", err)
	}

	var finder service.Finder[domain.Contact] = exec
	if deps.Cache != nil {
		finder = querycache.New[domain.Contact](exec, deps.Cache, cacheNamespace(deps.Namespace), deps.CacheTTL, deps.Logger)
	}

	repo := store.NewRepository[domain.Contact](deps.DB)
	svc := service.NewHandler[domain.Contact, *domain.Contact, *ContactSpec](finder, repo, deps.Logger)
	return NewModule(NewContactHandler(svc)), nil
}

// NewModule creates a new ContactModule with the given handler.
// Panics if h is nil.
func NewModule(h *ContactHandler) *ContactModule {
	if h == nil {
		panic("contact.NewModule: handler must not be nil")
	}
	return &ContactModule{handler: h}
}

// RegisterRoutes registers the contact API routes.
func (m *ContactModule) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/contacts")
	g.POST("", m.handler.Create)
	g.GET("", m.handler.List)
	g.GET("/find", m.handler.Find)
	g.GET("/exists", m.handler.Exists)
	g.GET("/recycle-bin", m.handler.RecycleBin)
	g.GET("/archived", m.handler.Archived)
	g.GET("/:id", m.handler.Get)
	g.PUT("/:id", m.handler.Update)
	g.DELETE("/:id", m.handler.Delete)
	g.POST("/:id/restore", m.handler.Restore)
	g.POST("/:id/archive", m.handler.Archive)
	g.POST("/:id/unarchive", m.handler.UnArchive)
	g.DELETE("/:id/permanent", m.handler.Purge)
}

func cacheNamespace(prefix string) string {
	if prefix == "" {
		return "contacts"
	}
	return prefix + ":contacts"
}
