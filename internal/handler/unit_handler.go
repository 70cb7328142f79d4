package handler

import (
	"net/http"

	"gestaomv/internal/middleware"
	"gestaomv/internal/model"
	"gestaomv/internal/service"
	"gestaomv/pkg/apperror"
	"gestaomv/pkg/pagination"
	"gestaomv/pkg/response"

	"github.com/gin-gonic/gin"
)

type UnitHandler struct {
	unitService service.UnitService
}

func NewUnitHandler(unitService service.UnitService) *UnitHandler {
	return &UnitHandler{unitService: unitService}
}

func (h *UnitHandler) RegisterRoutes(router *gin.RouterGroup) {
	units := router.Group("/api/units")
	{
		units.GET("", middleware.RequireAuth(), h.ListUnits)
		units.GET("/:id", middleware.RequireAuth(), h.GetUnit)
		units.POST("", middleware.RequireAnyRole(model.RoleAdmin), h.CreateUnit)
		units.PUT("/:id", middleware.RequireAnyRole(model.RoleAdmin), h.UpdateUnit)
	}
}

func (h *UnitHandler) ListUnits(c *gin.Context) {
	params := pagination.Parse(c)

	units, total, err := h.unitService.List(c.Request.Context(), params.Page, params.Limit, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, units, total, params.Page, params.Limit))
}

func (h *UnitHandler) GetUnit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	unit, err := h.unitService.Get(c.Request.Context(), id)
	if err != nil {
		status := apperror.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, unit))
}

func (h *UnitHandler) CreateUnit(c *gin.Context) {
	var req service.CreateUnitDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	unit, err := h.unitService.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		status := apperror.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, unit))
}

func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.UpdateUnitDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	unit, err := h.unitService.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		status := apperror.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, unit))
}
