package handlers

import (
	"net/http"

	"cupbot/services/business"

	"github.com/gin-gonic/gin"
)

func (h *HandlerBundle) GetBusinessHandler(c *gin.Context) {
	b, err := h.Business.GetBusiness(c.Request.Context(), businessID(c))
	if err != nil {
		respondError(c, "get business", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *HandlerBundle) UpdateBusinessHandler(c *gin.Context) {
	var req business.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Business.UpdateBusiness(c.Request.Context(), businessID(c), req)
	if err != nil {
		respondError(c, "update business", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *HandlerBundle) GetSettingsHandler(c *gin.Context) {
	s, err := h.Business.GetSettings(c.Request.Context(), businessID(c))
	if err != nil {
		respondError(c, "get settings", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *HandlerBundle) UpdateSettingsHandler(c *gin.Context) {
	var patch business.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.Business.UpdateSettings(c.Request.Context(), businessID(c), patch)
	if err != nil {
		respondError(c, "update settings", err)
		return
	}
	c.JSON(http.StatusOK, s)
}
