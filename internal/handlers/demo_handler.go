package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jatinbhagat/decipherworld-backend/internal/dto"
	"github.com/jatinbhagat/decipherworld-backend/internal/models"
	"github.com/jatinbhagat/decipherworld-backend/internal/service"
)

type DemoHandler struct {
	demoService *service.DemoService
}

func NewDemoHandler(demoService *service.DemoService) *DemoHandler {
	return &DemoHandler{
		demoService: demoService,
	}
}

// CreateDemoRequest godoc
// @Summary Request a product demo
// @Tags demo
// @Accept json
// @Produce json
// @Param request body dto.CreateDemoRequestRequest true "Demo request"
// @Success 201 {object} dto.DemoRequestDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/demo-requests [post]
func (h *DemoHandler) CreateDemoRequest(c *gin.Context) {
	var req dto.CreateDemoRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	request := &models.DemoRequest{
		Name:    req.Name,
		Email:   req.Email,
		School:  req.School,
		Message: req.Message,
	}
	if err := h.demoService.CreateDemoRequest(c.Request.Context(), request); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewDemoRequestDTO(request))
}

// CreateSchoolDemoRequest godoc
// @Summary Request a school demo
// @Tags demo
// @Accept json
// @Produce json
// @Param request body dto.CreateSchoolDemoRequest true "School demo request"
// @Success 201 {object} dto.SchoolDemoRequestDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/school-demo-requests [post]
func (h *DemoHandler) CreateSchoolDemoRequest(c *gin.Context) {
	var req dto.CreateSchoolDemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	products := "[]"
	if len(req.InterestedProducts) > 0 {
		if data, err := json.Marshal(req.InterestedProducts); err == nil {
			products = string(data)
		}
	}

	request := &models.SchoolDemoRequest{
		SchoolName:             req.SchoolName,
		ContactPerson:          req.ContactPerson,
		Email:                  req.Email,
		Phone:                  req.Phone,
		City:                   req.City,
		StudentCount:           req.StudentCount,
		InterestedProducts:     products,
		AdditionalRequirements: req.AdditionalRequirements,
		PreferredDemoTime:      req.PreferredDemoTime,
	}
	if err := h.demoService.CreateSchoolDemoRequest(c.Request.Context(), request); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSchoolDemoRequestDTO(request))
}

// ListDemoRequests godoc
// @Summary List demo requests
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/admin/demo-requests [get]
func (h *DemoHandler) ListDemoRequests(c *gin.Context) {
	limit, offset := pagination(c)
	requests, err := h.demoService.ListDemoRequests(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.DemoRequestDTO, len(requests))
	for i, r := range requests {
		out[i] = dto.NewDemoRequestDTO(r)
	}
	c.JSON(http.StatusOK, gin.H{"demo_requests": out})
}

// ListSchoolDemoRequests godoc
// @Summary List school demo requests
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/admin/school-demo-requests [get]
func (h *DemoHandler) ListSchoolDemoRequests(c *gin.Context) {
	limit, offset := pagination(c)
	requests, err := h.demoService.ListSchoolDemoRequests(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.SchoolDemoRequestDTO, len(requests))
	for i, r := range requests {
		out[i] = dto.NewSchoolDemoRequestDTO(r)
	}
	c.JSON(http.StatusOK, gin.H{"school_demo_requests": out})
}
