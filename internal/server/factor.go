package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	factordomain "github.com/verdantio/carbonledger/internal/factor/domain"
)

type createFactorRequest struct {
	ActivityName string  `json:"activity_name"`
	Scope        int     `json:"scope"`
	CO2ePerUnit  float64 `json:"co2e_per_unit"`
	ActivityUnit string  `json:"activity_unit"`
	Source       string  `json:"source"`
	ValidFrom    string  `json:"valid_from"`
	ValidTo      *string `json:"valid_to"`
}

func (s *Server) ResolveFactor(c *gin.Context) {
	var query factordomain.ResolveRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.factorSvc.Resolve(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateFactor(c *gin.Context) {
	var req createFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.factorSvc.Create(c.Request.Context(), factordomain.CreateRequest{
		ActivityName: strings.TrimSpace(req.ActivityName),
		Scope:        req.Scope,
		CO2ePerUnit:  req.CO2ePerUnit,
		ActivityUnit: strings.TrimSpace(req.ActivityUnit),
		Source:       strings.TrimSpace(req.Source),
		ValidFrom:    strings.TrimSpace(req.ValidFrom),
		ValidTo:      req.ValidTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListFactors(c *gin.Context) {
	var query factordomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.factorSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
