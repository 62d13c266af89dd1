package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autoinspect/inspection-service/internal/entity"
)

func (h *AnalysisHandler) StartAnalysis(c *gin.Context) {
	id := c.Param("id")

	report, err := h.analysisService.StartAnalysis(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInspectionNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Error: "Inspection not found"})
		case errors.Is(err, entity.ErrAnalysisInProgress):
			c.JSON(http.StatusConflict, ErrorResponse{Success: false, Error: "Analysis is already in progress"})
		case errors.Is(err, entity.ErrInspectionNoPhotos):
			c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "Inspection has no photos to analyze"})
		case errors.Is(err, entity.ErrAnalyzerUnavailable):
			c.JSON(http.StatusBadGateway, ErrorResponse{Success: false, Error: "Analyzer backend unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *AnalysisHandler) GetReport(c *gin.Context) {
	id := c.Param("id")

	report, err := h.analysisService.GetReport(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInspectionNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Error: "Inspection not found"})
		case errors.Is(err, entity.ErrReportNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Error: "Damage report not found"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}
