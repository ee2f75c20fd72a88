package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giovaniif/item-store/domain/item"
	"github.com/giovaniif/item-store/infra"
	"github.com/giovaniif/item-store/infra/logging"
	"github.com/giovaniif/item-store/infra/metrics"
	"github.com/giovaniif/item-store/infra/requestid"
	"github.com/giovaniif/item-store/infra/tracing"
	"github.com/giovaniif/item-store/protocols"
	"github.com/giovaniif/item-store/use_cases/create"
	"github.com/giovaniif/item-store/use_cases/get"
	"github.com/giovaniif/item-store/use_cases/list"
	"github.com/giovaniif/item-store/use_cases/remove"
	"github.com/giovaniif/item-store/use_cases/update"
)

const readinessTimeout = 2 * time.Second

var errEmptyObject = errors.New("empty JSON object")

type itemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Dependencies struct {
	Repository     item.Repository
	IdGenerator    protocols.IdGenerator
	Publisher      protocols.ItemEventPublisher
	Logger         *slog.Logger
	RequestTimeout time.Duration
}

type handlers struct {
	repository item.Repository
	create     *create.Create
	list       *list.List
	get        *get.Get
	update     *update.Update
	remove     *remove.Remove
}

// NewRouter wires the item use cases to their routes.
func NewRouter(deps Dependencies) *gin.Engine {
	h := &handlers{
		repository: deps.Repository,
		create:     create.NewCreate(deps.Repository, deps.IdGenerator, deps.Publisher),
		list:       list.NewList(deps.Repository),
		get:        get.NewGet(deps.Repository),
		update:     update.NewUpdate(deps.Repository, deps.Publisher),
		remove:     remove.NewRemove(deps.Repository, deps.Publisher),
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		gin.Recovery(),
		requestid.Middleware(),
		tracing.Middleware(),
		logging.Middleware(deps.Logger),
		metrics.Middleware,
		timeoutMiddleware(deps.RequestTimeout),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "API is running"})
	})
	r.GET("/ready", h.ready)
	r.GET(metrics.MetricsPath, gin.WrapH(promhttp.Handler()))

	items := r.Group("/items")
	items.POST("", h.createItem)
	items.GET("", h.listItems)
	items.GET("/:id", h.getItem)
	items.PUT("/:id", h.updateItem)
	items.DELETE("/:id", h.deleteItem)

	return r
}

func (h *handlers) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()
	if err := h.repository.Ping(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": gin.H{"storage": "down"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": gin.H{"storage": "up"}})
}

func (h *handlers) createItem(c *gin.Context) {
	var createRequest itemRequest
	if err := c.ShouldBindJSON(&createRequest); err != nil {
		_ = c.Error(err)
		respondError(c, "create", item.NewInvalidInputError("'name' is required"))
		return
	}
	out, err := h.create.Create(c.Request.Context(), create.Input{
		Name:        createRequest.Name,
		Description: createRequest.Description,
	})
	if err != nil {
		respondError(c, "create", err)
		return
	}
	metrics.RecordOperation("create", nil)
	c.JSON(http.StatusCreated, out.Item)
}

func (h *handlers) listItems(c *gin.Context) {
	out, err := h.list.List(c.Request.Context())
	if err != nil {
		respondError(c, "list", err)
		return
	}
	metrics.RecordOperation("list", nil)
	c.JSON(http.StatusOK, out.Items)
}

func (h *handlers) getItem(c *gin.Context) {
	out, err := h.get.Get(c.Request.Context(), get.Input{ItemId: c.Param("id")})
	if err != nil {
		respondError(c, "get", err)
		return
	}
	metrics.RecordOperation("get", nil)
	c.JSON(http.StatusOK, out.Item)
}

// updateItem passes a nil patch when the body is unusable, so the use case
// still reports a missing item before rejecting the body.
func (h *handlers) updateItem(c *gin.Context) {
	patch, err := bindPatch(c)
	if err != nil {
		_ = c.Error(err)
	}
	out, err := h.update.Update(c.Request.Context(), update.Input{ItemId: c.Param("id"), Patch: patch})
	if err != nil {
		respondError(c, "update", err)
		return
	}
	metrics.RecordOperation("update", nil)
	c.JSON(http.StatusOK, out.Item)
}

func (h *handlers) deleteItem(c *gin.Context) {
	if err := h.remove.Remove(c.Request.Context(), remove.Input{ItemId: c.Param("id")}); err != nil {
		respondError(c, "delete", err)
		return
	}
	metrics.RecordOperation("delete", nil)
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// bindPatch returns nil for an absent body, invalid JSON, null, an empty
// object or a field of the wrong type. Unknown keys are ignored.
func bindPatch(c *gin.Context) (*item.Patch, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errEmptyObject
	}
	var updateRequest itemRequest
	if err := binding.JSON.BindBody(body, &updateRequest); err != nil {
		return nil, err
	}
	return &item.Patch{Name: updateRequest.Name, Description: updateRequest.Description}, nil
}

// respondError is the only place where errors become status codes.
func respondError(c *gin.Context, operation string, err error) {
	metrics.RecordOperation(operation, err)
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, errorResponse{Error: message})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, item.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, item.ErrNotFound):
		return http.StatusNotFound, item.ErrNotFound.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, "request timed out"
	case errors.Is(err, infra.ErrStorage):
		return http.StatusServiceUnavailable, "storage unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func timeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
