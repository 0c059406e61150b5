package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	salesdomain "github.com/smallbiznis/salesops/internal/sales/domain"
)

func (s *Server) GetSale(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.salesSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetSaleVerification(c *gin.Context) {
	var req salesdomain.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.salesSvc.SetVerification(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetSaleApproval(c *gin.Context) {
	var req salesdomain.ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.salesSvc.SetApproval(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetSalePayment(c *gin.Context) {
	var req salesdomain.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.salesSvc.SetPaymentStatus(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
