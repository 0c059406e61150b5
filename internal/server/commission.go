package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	commissiondomain "github.com/smallbiznis/salesops/internal/commission/domain"
)

func (s *Server) CalculateCommission(c *gin.Context) {
	var req commissiondomain.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req.ProductType = strings.TrimSpace(req.ProductType)
	req.PackageCode = strings.TrimSpace(req.PackageCode)
	if req.ProductType == "" {
		AbortWithError(c, newValidationError("product_type", "required", "product_type is required"))
		return
	}

	resp, err := s.commissionSvc.CalculateSale(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDSRCommission(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.commissionSvc.DSRSummary(c.Request.Context(), id, c.Query("period"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTeamCommission(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.commissionSvc.TeamSummary(c.Request.Context(), id, c.Query("period"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetManagerCommission(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.commissionSvc.ManagerSummary(c.Request.Context(), id, c.Query("period"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRateCatalog(c *gin.Context) {
	resp, err := s.commissionSvc.Catalog(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
