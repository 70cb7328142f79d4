package handler

import (
	"net/http"
	"strconv"

	"gestaomv/internal/middleware"
	"gestaomv/internal/model"
	"gestaomv/internal/service"
	"gestaomv/pkg/apperror"
	"gestaomv/pkg/pagination"
	"gestaomv/pkg/response"

	"github.com/gin-gonic/gin"
)

// maxPhotoSize bounds photo uploads to 5 MiB
const maxPhotoSize = 5 << 20

type MaterialHandler struct {
	materialService service.MaterialService
}

func NewMaterialHandler(materialService service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

func (h *MaterialHandler) RegisterRoutes(router *gin.RouterGroup) {
	materials := router.Group("/api/materials")
	{
		materials.GET("", middleware.RequireAuth(), h.ListMaterials)
		materials.GET("/types", middleware.RequireAuth(), h.ListTypes)
		materials.GET("/units-of-measure", middleware.RequireAuth(), h.ListUnitsOfMeasure)
		materials.GET("/:id", middleware.RequireAuth(), h.GetMaterial)
		materials.GET("/:id/photo", middleware.RequireAuth(), h.GetPhotoURL)
		materials.POST("", middleware.RequireAnyRole(model.ReviewerRoles()...), h.CreateMaterial)
		materials.PUT("/:id", middleware.RequireAnyRole(model.ReviewerRoles()...), h.UpdateMaterial)
		materials.DELETE("/:id", middleware.RequireAnyRole(model.ReviewerRoles()...), h.DeactivateMaterial)
		materials.POST("/:id/photo", middleware.RequireAnyRole(model.ReviewerRoles()...), h.UploadPhoto)
	}
}

// ListMaterials returns the catalog filtered by activity, search text and type
// @Summary      List materials
// @Tags         materials
// @Security     BearerAuth
// @Produce      json
// @Param        active   query     bool    false  "Only active (or only inactive) materials"
// @Param        search   query     string  false  "Search by name"
// @Param        type_id  query     int     false  "Material type"
// @Param        page     query     int     false  "Page number"
// @Param        limit    query     int     false  "Items per page"
// @Success      200  {object}  response.Response{data=response.Page}
// @Failure      500  {object}  response.Response
// @Router       /api/materials [get]
func (h *MaterialHandler) ListMaterials(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.ListMaterialsDTO{
		Search: c.Query("search"),
		Page:   params.Page,
		Limit:  params.Limit,
	}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}
	if v, err := strconv.ParseUint(c.Query("type_id"), 10, 64); err == nil {
		filter.TypeID = uint(v)
	}

	materials, total, err := h.materialService.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve materials: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, materials, total, params.Page, params.Limit))
}

// ListTypes returns the static material type reference list
func (h *MaterialHandler) ListTypes(c *gin.Context) {
	types, err := h.materialService.ListTypes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, types))
}

// ListUnitsOfMeasure returns the static unit-of-measure reference list
func (h *MaterialHandler) ListUnitsOfMeasure(c *gin.Context) {
	units, err := h.materialService.ListUnitsOfMeasure(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, units))
}

// GetMaterial returns one catalog entry
func (h *MaterialHandler) GetMaterial(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	material, err := h.materialService.Get(c.Request.Context(), id)
	if err != nil {
		status := apperror.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, material))
}

// CreateMaterial creates a new catalog entry
// @Summary      Create material
// @Tags         materials
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateMaterialDTO  true  "Create payload"
// @Success      201      {object}  response.Response{data=model.Material}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/materials [post]
func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	var req service.CreateMaterialDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	material, err := h.materialService.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		status := apperror.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, material))
}

// UpdateMaterial updates an existing catalog entry
func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.UpdateMaterialDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	material, err := h.materialService.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		status := apperror.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, material))
}

// DeactivateMaterial retires a catalog entry without deleting it
func (h *MaterialHandler) DeactivateMaterial(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	material, err := h.materialService.Deactivate(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		status := apperror.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, material))
}

// UploadPhoto stores a photo for a material and keeps the opaque object key
// @Summary      Upload material photo
// @Tags         materials
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      int   true  "Material ID"
// @Param        photo  formData  file  true  "Photo file"
// @Success      200    {object}  response.Response{data=model.Material}
// @Failure      400    {object}  response.Response
// @Router       /api/materials/{id}/photo [post]
func (h *MaterialHandler) UploadPhoto(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Photo file is missing"))
		return
	}
	if fileHeader.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Photo exceeds the 5 MiB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read photo"))
		return
	}
	defer file.Close()

	material, err := h.materialService.AttachPhoto(
		c.Request.Context(),
		middleware.ActorFrom(c),
		id,
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		status := apperror.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, material))
}

// GetPhotoURL resolves the opaque photo key to a time-limited URL
func (h *MaterialHandler) GetPhotoURL(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	url, err := h.materialService.PhotoURL(c.Request.Context(), id)
	if err != nil {
		status := apperror.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"url": url}))
}
