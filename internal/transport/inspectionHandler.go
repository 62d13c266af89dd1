package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/autoinspect/inspection-service/internal/entity"
	"github.com/autoinspect/inspection-service/internal/service"
)

func (h *InspectionHandler) CreateInspection(c *gin.Context) {
	var req service.CreateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	inspection, err := h.inspectionService.CreateInspection(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, inspection)
}

func (h *InspectionHandler) GetInspection(c *gin.Context) {
	id := c.Param("id")

	details, err := h.inspectionService.GetInspection(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrInspectionNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Error: "Inspection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *InspectionHandler) GetAllInspections(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	inspections, err := h.inspectionService.GetAllInspections(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: inspections})
}

func (h *InspectionHandler) DeleteInspection(c *gin.Context) {
	id := c.Param("id")

	if err := h.inspectionService.DeleteInspection(c.Request.Context(), id); err != nil {
		if errors.Is(err, entity.ErrInspectionNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Error: "Inspection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Inspection deleted"})
}
