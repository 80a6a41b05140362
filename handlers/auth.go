package handlers

import (
	"net/http"

	"cupbot/services/business"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterHandler creates a business and its owner account.
func (h *HandlerBundle) RegisterHandler(c *gin.Context) {
	logger := getLogger(c)

	var req business.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid registration request", zap.Error(err))
		badRequest(c, err)
		return
	}

	res, err := h.Business.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, "register", err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// LoginHandler returns a dashboard token for valid owner credentials.
func (h *HandlerBundle) LoginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.Business.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, "log in", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
