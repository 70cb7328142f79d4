package handler

import (
	"net/http"
	"strconv"
	"time"

	"gestaomv/internal/middleware"
	"gestaomv/internal/model"
	"gestaomv/internal/service"
	"gestaomv/pkg/apperror"
	"gestaomv/pkg/pagination"
	"gestaomv/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/requests")
	{
		requests.GET("", middleware.RequireAuth(), h.ListRequests)
		requests.GET("/:id", middleware.RequireAuth(), h.GetRequest)
		requests.POST("", middleware.RequireAnyRole(model.RequesterRoles()...), h.CreateRequest)
		requests.PUT("/:id/review", middleware.RequireAnyRole(model.ReviewerRoles()...), h.ReviewRequest)
		requests.PUT("/:id/fulfill", middleware.RequireAnyRole(model.ReviewerRoles()...), h.FulfillRequest)
	}
}

// CreateRequest opens a new material request for a unit
// @Summary      Create material request
// @Description  Creates a PENDING material request with 1 to 50 distinct material lines
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateRequestDTO  true  "Request payload"
// @Success      201      {object}  response.Response{data=model.MaterialRequest}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var req service.CreateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		status := apperror.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ReviewRequest approves or rejects a pending request
// @Summary      Review material request
// @Description  Moves a PENDING request to APPROVED or REJECTED; rejection requires a reason
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true  "Request ID"
// @Param        payload  body      service.ReviewRequestDTO  true  "Review payload"
// @Success      200      {object}  response.Response{data=model.MaterialRequest}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/requests/{id}/review [put]
func (h *RequestHandler) ReviewRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.ReviewRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.Review(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		status := apperror.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// FulfillRequest marks an approved request as fulfilled
// @Summary      Fulfill material request
// @Description  Moves an APPROVED request to FULFILLED; quantities may be adjusted downward per item
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                        true  "Request ID"
// @Param        payload  body      service.FulfillRequestDTO  true  "Fulfillment payload"
// @Success      200      {object}  response.Response{data=model.MaterialRequest}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/requests/{id}/fulfill [put]
func (h *RequestHandler) FulfillRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.FulfillRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.Fulfill(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		status := apperror.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListRequests returns requests filtered by status, unit, requester and date range
// @Summary      List material requests
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        status        query     string  false  "PENDING, APPROVED, REJECTED or FULFILLED"
// @Param        unit_id       query     int     false  "Destination unit"
// @Param        requester_id  query     int     false  "Requesting user"
// @Param        from          query     string  false  "Operation date lower bound (RFC3339)"
// @Param        to            query     string  false  "Operation date upper bound (RFC3339)"
// @Param        sort          query     string  false  "Sort column (operation_date, status, unit_id)"
// @Param        order         query     string  false  "asc or desc"
// @Param        page          query     int     false  "Page number"
// @Param        limit         query     int     false  "Items per page"
// @Success      200  {object}  response.Response{data=response.Page}
// @Failure      500  {object}  response.Response
// @Router       /api/requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.ListRequestsDTO{
		Status:   c.Query("status"),
		SortBy:   c.Query("sort"),
		SortDesc: c.Query("order") == "desc",
		Page:     params.Page,
		Limit:    params.Limit,
	}
	if v, err := strconv.ParseUint(c.Query("unit_id"), 10, 64); err == nil {
		filter.UnitID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("requester_id"), 10, 64); err == nil {
		filter.RequesterID = uint(v)
	}
	if t, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filter.From = &t
	}
	if t, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filter.To = &t
	}

	requests, total, err := h.requestService.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve requests: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, requests, total, params.Page, params.Limit))
}

// GetRequest returns a single request with its items
// @Summary      Get material request
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  response.Response{data=model.MaterialRequest}
// @Failure      404  {object}  response.Response
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) GetRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.requestService.Get(c.Request.Context(), id)
	if err != nil {
		status := apperror.HTTPStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// pathID parses the :id path parameter, replying 400 on garbage
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid id"))
		return 0, false
	}
	return uint(id), true
}
