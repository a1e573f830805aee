package controller

import (
	"errors"
	"rovia_backend/internal/model"
	"rovia_backend/internal/repository"
	"rovia_backend/internal/service"
	"rovia_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AttractionController struct {
	AttractionService *service.AttractionService
	StorageService    *service.StorageService
}

func NewAttractionController(attractionService *service.AttractionService, storageService *service.StorageService) *AttractionController {
	return &AttractionController{
		AttractionService: attractionService,
		StorageService:    storageService,
	}
}

// @Summary List attractions
// @Description List approved attractions, optionally filtered
// @Tags attractions
// @Produce json
// @Param type query string false "attraction type"
// @Param region query string false "region name"
// @Param minRating query number false "minimum rating"
// @Success 200 {object} util.Response
// @Router /attractions [get]
func (c *AttractionController) List(ctx *gin.Context) {
	filter := repository.AttractionFilter{
		Type:   model.AttractionType(ctx.Query("type")),
		Region: ctx.Query("region"),
	}
	if raw := ctx.Query("minRating"); raw != "" {
		if rating, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinRating = rating
		}
	}

	attractions, err := c.AttractionService.List(filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, attractions)
}

// @Summary Get attraction
// @Tags attractions
// @Produce json
// @Param id path int true "attraction id"
// @Success 200 {object} util.Response
// @Router /attractions/{id} [get]
func (c *AttractionController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	attraction, err := c.AttractionService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrAttractionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, attraction)
}

// @Summary Create attraction
// @Tags attractions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.AttractionUpsertRequest true "Attraction payload"
// @Success 201 {object} util.Response
// @Router /attractions [post]
func (c *AttractionController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.AttractionUpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attraction, err := c.AttractionService.Create(user.UserID, req, user.IsAdmin())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, attraction)
}

// @Summary Update attraction
// @Tags attractions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "attraction id"
// @Param request body service.AttractionUpsertRequest true "Attraction payload"
// @Success 200 {object} util.Response
// @Router /attractions/{id} [put]
func (c *AttractionController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))

	var req service.AttractionUpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attraction, err := c.AttractionService.Update(id, user.UserID, req, user.IsAdmin())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttractionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, attraction)
}

// @Summary Delete attraction
// @Tags attractions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "attraction id"
// @Success 200 {object} util.Response
// @Router /attractions/{id} [delete]
func (c *AttractionController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))

	if err := c.AttractionService.Delete(id, user.UserID, user.IsAdmin()); err != nil {
		switch {
		case errors.Is(err, util.ErrAttractionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// @Summary Upload attraction image
// @Tags attractions
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "attraction id"
// @Param file formData file true "image file"
// @Success 200 {object} util.Response
// @Router /attractions/{id}/image [post]
func (c *AttractionController) UploadImage(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := c.StorageService.UploadImage(ctx.Request.Context(), fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	attraction, err := c.AttractionService.SetImage(id, user.UserID, url, user.IsAdmin())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttractionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, attraction)
}
