package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	emissiondomain "github.com/verdantio/carbonledger/internal/emission/domain"
)

type createEmissionRequest struct {
	ActivityName  string  `json:"activity_name"`
	ActivityValue float64 `json:"activity_value"`
	ActivityUnit  string  `json:"activity_unit"`
	Scope         int     `json:"scope"`
	ActivityDate  string  `json:"activity_date"`
	Location      string  `json:"location"`
	Department    string  `json:"department"`
	Notes         string  `json:"notes"`
}

type overrideEmissionRequest struct {
	OverriddenCO2e *float64 `json:"overridden_co2e"`
	Notes          string   `json:"notes"`
}

func (s *Server) CreateEmissionRecord(c *gin.Context) {
	var req createEmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.emissionSvc.Create(c.Request.Context(), emissiondomain.CreateRequest{
		ActivityName:  strings.TrimSpace(req.ActivityName),
		ActivityValue: req.ActivityValue,
		ActivityUnit:  strings.TrimSpace(req.ActivityUnit),
		Scope:         req.Scope,
		ActivityDate:  strings.TrimSpace(req.ActivityDate),
		Location:      strings.TrimSpace(req.Location),
		Department:    strings.TrimSpace(req.Department),
		Notes:         strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetEmissionRecord(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.emissionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) OverrideEmissionRecord(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req overrideEmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.OverriddenCO2e == nil {
		AbortWithError(c, newValidationError("overridden_co2e", "required", "overridden_co2e is required"))
		return
	}

	resp, err := s.emissionSvc.Override(c.Request.Context(), emissiondomain.OverrideRequest{
		ID:             id,
		OverriddenCO2e: *req.OverriddenCO2e,
		Notes:          strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
