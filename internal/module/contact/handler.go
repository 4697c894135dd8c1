package contact

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/gospec/internal/domain"
	"github.com/simp-lee/gospec/internal/pkg"
	"github.com/simp-lee/gospec/internal/service"
)

// Service is the contact service the HTTP layer drives.
type Service = service.Handler[domain.Contact, *domain.Contact, *ContactSpec]

// ContactHandler handles REST API requests for the contact resource.
type ContactHandler struct {
	svc *Service
}

// NewContactHandler creates a new ContactHandler with the given service.
func NewContactHandler(svc *Service) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// Create handles POST /api/v1/contacts.
func (h *ContactHandler) Create(c *gin.Context) {
	var req ContactRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	contact := &domain.Contact{}
	req.apply(contact)
	created, err := h.svc.Create(c.Request.Context(), contact)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, created)
}

// List handles GET /api/v1/contacts.
func (h *ContactHandler) List(c *gin.Context) {
	s, ok := bindSpec(c)
	if !ok {
		return
	}

	page, err := h.svc.FindAll(c.Request.Context(), s, pkg.Attributes(c)...)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Page(c, page)
}

// Find handles GET /api/v1/contacts/find and returns the first match.
func (h *ContactHandler) Find(c *gin.Context) {
	s, ok := bindSpec(c)
	if !ok {
		return
	}

	contact, err := h.svc.Find(c.Request.Context(), s, pkg.Attributes(c)...)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, contact)
}

// Exists handles GET /api/v1/contacts/exists.
func (h *ContactHandler) Exists(c *gin.Context) {
	s, ok := bindSpec(c)
	if !ok {
		return
	}

	exists, err := h.svc.Exists(c.Request.Context(), s)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, gin.H{"exists": exists})
}

// RecycleBin handles GET /api/v1/contacts/recycle-bin.
func (h *ContactHandler) RecycleBin(c *gin.Context) {
	s, ok := bindSpec(c)
	if !ok {
		return
	}

	page, err := h.svc.RecycleBin(c.Request.Context(), s)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Page(c, page)
}

// Archived handles GET /api/v1/contacts/archived.
func (h *ContactHandler) Archived(c *gin.Context) {
	s, ok := bindSpec(c)
	if !ok {
		return
	}

	page, err := h.svc.FindAllArchived(c.Request.Context(), s)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Page(c, page)
}

// Get handles GET /api/v1/contacts/:id.
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	contact, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, contact)
}

// Update handles PUT /api/v1/contacts/:id.
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req ContactRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	contact, err := h.svc.Update(c.Request.Context(), id, func(m *domain.Contact) error {
		req.apply(m)
		return nil
	})
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, contact)
}

// Delete handles DELETE /api/v1/contacts/:id. The contact is only marked
// deleted; see Purge for removal.
func (h *ContactHandler) Delete(c *gin.Context) {
	h.lifecycle(c, h.svc.Delete)
}

// Restore handles POST /api/v1/contacts/:id/restore.
func (h *ContactHandler) Restore(c *gin.Context) {
	h.lifecycle(c, h.svc.Restore)
}

// Archive handles POST /api/v1/contacts/:id/archive.
func (h *ContactHandler) Archive(c *gin.Context) {
	h.lifecycle(c, h.svc.Archive)
}

// UnArchive handles POST /api/v1/contacts/:id/unarchive.
func (h *ContactHandler) UnArchive(c *gin.Context) {
	h.lifecycle(c, h.svc.UnArchive)
}

// Purge handles DELETE /api/v1/contacts/:id/permanent.
func (h *ContactHandler) Purge(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.svc.DeletePermanently(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.NoContent(c)
}

func (h *ContactHandler) lifecycle(c *gin.Context, op func(ctx context.Context, id uint) (*domain.Contact, error)) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	contact, err := op(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, contact)
}

func bindSpec(c *gin.Context) (*ContactSpec, bool) {
	s := NewSpec()
	if err := pkg.BindSpec(c, s); err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "invalid query: "+err.Error(), err))
		return nil, false
	}
	return s, true
}

func bindID(c *gin.Context) (uint, bool) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return 0, false
	}
	return id, true
}

func parseID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 || id > uint64(^uint(0)) {
		return 0, fmt.Errorf("invalid id: %s", idStr)
	}
	return uint(id), nil
}
