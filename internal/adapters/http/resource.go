package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/boostclient/boostclient-service/internal/adapters/http/dto"
	"github.com/boostclient/boostclient-service/internal/app"
	"github.com/boostclient/boostclient-service/internal/domain"
	"github.com/boostclient/boostclient-service/internal/ports"
)

// MediaTypeMergePatch is the only content type accepted by PATCH.
const MediaTypeMergePatch = "application/merge-patch+json"

// Codec converts between the wire representation of a resource and its
// domain entity.
type Codec[E domain.Entity, P domain.Patch[E], Req, Resp any] struct {
	Entity   func(*Req) E
	Patch    func(*Req) P
	Response func(E) Resp
}

// Routes is implemented by every resource mounted under /api.
type Routes interface {
	Register(rg *gin.RouterGroup, write ...gin.HandlerFunc)
}

// Resource serves the six REST operations of one entity type:
//
//	POST   /{path}        create
//	PUT    /{path}/:id    full update
//	PATCH  /{path}/:id    merge-patch update
//	GET    /{path}        list, ordered by ?sort=field,dir
//	GET    /{path}/:id    read
//	DELETE /{path}/:id    delete
//
// Writes carry X-{app}-alert and X-{app}-params headers naming the entity
// and id. Identifier errors carry X-{app}-error instead.
type Resource[E domain.Entity, P domain.Patch[E], Req, Resp any] struct {
	path     string
	appName  string
	service  *app.CrudService[E, P]
	codec    Codec[E, P, Req, Resp]
	location string
}

// NewResource creates a resource mounted at path, for example "/employers".
func NewResource[E domain.Entity, P domain.Patch[E], Req, Resp any](
	path, appName string,
	service *app.CrudService[E, P],
	codec Codec[E, P, Req, Resp],
) *Resource[E, P, Req, Resp] {
	return &Resource[E, P, Req, Resp]{
		path:     path,
		appName:  appName,
		service:  service,
		codec:    codec,
		location: path,
	}
}

// Register mounts the routes on rg. The write handlers guard the mutating
// routes only.
func (r *Resource[E, P, Req, Resp]) Register(rg *gin.RouterGroup, write ...gin.HandlerFunc) {
	group := rg.Group(r.path)
	r.location = group.BasePath()

	group.GET("", r.List)
	group.GET("/:id", r.Get)

	writes := group.Group("", write...)
	writes.POST("", r.Create)
	writes.PUT("/:id", r.Update)
	writes.PATCH("/:id", r.PartialUpdate)
	writes.DELETE("/:id", r.Delete)
}

// Create handles POST /{path}.
func (r *Resource[E, P, Req, Resp]) Create(c *gin.Context) {
	var req Req
	if !r.bind(c, &req, true) {
		return
	}

	saved, err := r.service.Create(c.Request.Context(), r.codec.Entity(&req))
	if err != nil {
		r.fail(c, err)
		return
	}

	id := idString(saved.Identifier())

	c.Header("Location", r.location+"/"+id)
	r.alert(c, "created", id)
	c.JSON(http.StatusCreated, r.codec.Response(saved))
}

// Update handles PUT /{path}/:id.
func (r *Resource[E, P, Req, Resp]) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req Req
	if !r.bind(c, &req, true) {
		return
	}

	saved, err := r.service.Update(c.Request.Context(), id, r.codec.Entity(&req))
	if err != nil {
		r.fail(c, err)
		return
	}

	r.alert(c, "updated", idString(saved.Identifier()))
	c.JSON(http.StatusOK, r.codec.Response(saved))
}

// PartialUpdate handles PATCH /{path}/:id. Fields that are absent or null
// in the body keep their stored value.
func (r *Resource[E, P, Req, Resp]) PartialUpdate(c *gin.Context) {
	if c.ContentType() != MediaTypeMergePatch {
		RespondWithErrorCode(c, dto.ErrorCodeUnsupportedMediaType,
			"content type must be "+MediaTypeMergePatch)

		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req Req
	if !r.bind(c, &req, false) {
		return
	}

	saved, err := r.service.PartialUpdate(c.Request.Context(), id, r.codec.Patch(&req))
	if err != nil {
		r.fail(c, err)
		return
	}

	r.alert(c, "updated", idString(saved.Identifier()))
	c.JSON(http.StatusOK, r.codec.Response(saved))
}

// List handles GET /{path}. Each sort parameter has the form field[,asc|desc].
func (r *Resource[E, P, Req, Resp]) List(c *gin.Context) {
	var orders []ports.SortOrder

	for _, raw := range c.QueryArray("sort") {
		order, err := ports.ParseSortOrder(raw)
		if err != nil {
			RespondWithError(c, domain.NewValidationErrorWithValue("sort", err.Error(), raw))
			return
		}

		orders = append(orders, order)
	}

	entities, err := r.service.List(c.Request.Context(), orders...)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	resp := make([]Resp, 0, len(entities))
	for _, e := range entities {
		resp = append(resp, r.codec.Response(e))
	}

	c.JSON(http.StatusOK, resp)
}

// Get handles GET /{path}/:id.
func (r *Resource[E, P, Req, Resp]) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	entity, err := r.service.Get(c.Request.Context(), id)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, r.codec.Response(entity))
}

// Delete handles DELETE /{path}/:id. It answers 204 whether or not the
// entity existed.
func (r *Resource[E, P, Req, Resp]) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := r.service.Delete(c.Request.Context(), id); err != nil {
		RespondWithError(c, err)
		return
	}

	r.alert(c, "deleted", strconv.FormatInt(id, 10))
	c.Status(http.StatusNoContent)
}

func (r *Resource[E, P, Req, Resp]) bind(c *gin.Context, req *Req, validate bool) bool {
	var err error
	if validate {
		err = dto.BindAndValidate(c, req)
	} else {
		err = dto.Bind(c, req)
	}

	switch {
	case err == nil:
		return true
	case dto.IsValidationError(err):
		RespondWithValidationErrors(c, dto.ValidationErrors(err))
	default:
		RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "malformed request body")
	}

	return false
}

func (r *Resource[E, P, Req, Resp]) fail(c *gin.Context, err error) {
	var badRequest *domain.BadRequestError
	if errors.As(err, &badRequest) {
		c.Header(r.header("error"), "error."+badRequest.Key)
		c.Header(r.header("params"), badRequest.Entity)
	}

	RespondWithError(c, err)
}

func (r *Resource[E, P, Req, Resp]) alert(c *gin.Context, action, id string) {
	c.Header(r.header("alert"), r.appName+"."+r.service.Entity()+"."+action)
	c.Header(r.header("params"), id)
}

func (r *Resource[E, P, Req, Resp]) header(name string) string {
	return "X-" + r.appName + "-" + name
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "id must be an integer")
		return 0, false
	}

	return id, true
}

func idString(id *int64) string {
	if id == nil {
		return ""
	}

	return strconv.FormatInt(*id, 10)
}
