package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wanderstay/bookings/internal/config"
	"github.com/wanderstay/bookings/internal/resource"
)

// Controller is the mountable face of a resource handler; the router wires
// controllers through a kind-indexed registry.
type Controller interface {
	Mount(rg *gin.RouterGroup)
}

// Store is the uniform persistence contract one entity kind exposes.
// Kept small so tests can fake it easily.
type Store[R any] interface {
	List(ctx context.Context, filter resource.Filter) ([]R, error)
	GetByID(ctx context.Context, id string) (R, error)
	Create(ctx context.Context, rec R) (R, error)
	Update(ctx context.Context, id string, patch resource.Patch) (R, error)
	Delete(ctx context.Context, id string) error
}

// CreateGuard runs before an insert; returning an error wrapping
// resource.ErrConflict turns into a 409.
type CreateGuard[R any] func(ctx context.Context, rec R) error

// ResourceHandler is the generic CRUD controller. R is the persisted shape,
// V the view the caller sees; project is the only path from one to the
// other, so redaction cannot be skipped per route.
type ResourceHandler[R any, V any] struct {
	kind    resource.Kind
	store   Store[R]
	project func(R) V
	rules   []resource.Rule
	guard   CreateGuard[R]
}

// Identity is the projection for kinds with nothing to redact.
func Identity[T any](v T) T {
	return v
}

func NewResourceHandler[R any, V any](kind resource.Kind, store Store[R], project func(R) V) *ResourceHandler[R, V] {
	return &ResourceHandler[R, V]{
		kind:    kind,
		store:   store,
		project: project,
		rules:   resource.RulesFor(kind),
	}
}

// WithCreateGuard installs a pre-insert check (e.g. a username uniqueness
// probe). The database constraint remains the real backstop; the guard just
// gives the caller a friendlier message.
func (h *ResourceHandler[R, V]) WithCreateGuard(guard CreateGuard[R]) *ResourceHandler[R, V] {
	h.guard = guard
	return h
}

// Mount registers the uniform CRUD routes on a collection group.
func (h *ResourceHandler[R, V]) Mount(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *ResourceHandler[R, V]) List(ctx *gin.Context) {
	filter, err := resource.BuildFilter(h.rules, ctx.Request.URL.Query())

	if err != nil {
		RespondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	items, err := h.store.List(cctx, filter)

	if err != nil {
		RespondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	// Zero matches is "no results", distinct from a store error.
	if len(items) == 0 {
		RespondNoResults(ctx)
		return
	}

	out := make([]V, 0, len(items))

	for _, item := range items {
		out = append(out, h.project(item))
	}

	ctx.JSON(http.StatusOK, out)
}

func (h *ResourceHandler[R, V]) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	item, err := h.store.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			RespondNotFound(ctx)
			return
		}

		RespondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, h.project(item))
}

func (h *ResourceHandler[R, V]) Create(ctx *gin.Context) {
	var rec R

	if !BindJSON(ctx, &rec) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	if h.guard != nil {
		if err := h.guard(cctx, rec); err != nil {
			if errors.Is(err, resource.ErrConflict) {
				RespondError(ctx, http.StatusConflict, err.Error())
				return
			}

			RespondError(ctx, http.StatusBadRequest, err.Error())
			return
		}
	}

	created, err := h.store.Create(cctx, rec)

	if err != nil {
		if errors.Is(err, resource.ErrConflict) {
			RespondError(ctx, http.StatusConflict, err.Error())
			return
		}

		RespondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	ctx.JSON(http.StatusCreated, h.project(created))
}

func (h *ResourceHandler[R, V]) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	patch := resource.Patch{}

	if err := ctx.ShouldBindJSON(&patch); err != nil {
		RespondError(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	// The identity key is immutable.
	delete(patch, "id")

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	updated, err := h.store.Update(cctx, id, patch)

	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			RespondNotFound(ctx)
			return
		}

		if errors.Is(err, resource.ErrConflict) {
			RespondError(ctx, http.StatusConflict, err.Error())
			return
		}

		RespondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, h.project(updated))
}

func (h *ResourceHandler[R, V]) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	err := h.store.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			RespondNotFound(ctx)
			return
		}

		RespondError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	RespondMessage(ctx, http.StatusOK, "Deleted successfully")
}
