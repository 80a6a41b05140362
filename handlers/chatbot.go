package handlers

import (
	"net/http"

	"cupbot/models"
	"cupbot/services/business"

	"github.com/gin-gonic/gin"
)

func (h *HandlerBundle) ListCommandsHandler(c *gin.Context) {
	cmds, err := h.Business.ListCommands(c.Request.Context(), businessID(c))
	if err != nil {
		respondError(c, "list commands", err)
		return
	}
	c.JSON(http.StatusOK, cmds)
}

func (h *HandlerBundle) AddCommandHandler(c *gin.Context) {
	var cmd models.CustomCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequest(c, err)
		return
	}
	cmds, err := h.Business.AddCommand(c.Request.Context(), businessID(c), cmd)
	if err != nil {
		respondError(c, "add command", err)
		return
	}
	c.JSON(http.StatusCreated, cmds)
}

func (h *HandlerBundle) UpdateCommandHandler(c *gin.Context) {
	var cmd models.CustomCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequest(c, err)
		return
	}
	cmds, err := h.Business.UpdateCommand(c.Request.Context(), businessID(c), c.Param("command"), cmd)
	if err != nil {
		respondError(c, "update command", err)
		return
	}
	c.JSON(http.StatusOK, cmds)
}

func (h *HandlerBundle) DeleteCommandHandler(c *gin.Context) {
	cmds, err := h.Business.DeleteCommand(c.Request.Context(), businessID(c), c.Param("command"))
	if err != nil {
		respondError(c, "delete command", err)
		return
	}
	c.JSON(http.StatusOK, cmds)
}

func (h *HandlerBundle) ListAutoResponsesHandler(c *gin.Context) {
	list, err := h.Business.ListAutoResponses(c.Request.Context(), businessID(c))
	if err != nil {
		respondError(c, "list auto-responses", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *HandlerBundle) AddAutoResponseHandler(c *gin.Context) {
	var ar models.AutoResponse
	if err := c.ShouldBindJSON(&ar); err != nil {
		badRequest(c, err)
		return
	}
	list, err := h.Business.AddAutoResponse(c.Request.Context(), businessID(c), ar)
	if err != nil {
		respondError(c, "add auto-response", err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

func (h *HandlerBundle) DeleteAutoResponseHandler(c *gin.Context) {
	list, err := h.Business.DeleteAutoResponse(c.Request.Context(), businessID(c), c.Param("trigger"))
	if err != nil {
		respondError(c, "delete auto-response", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *HandlerBundle) ChatbotSettingsHandler(c *gin.Context) {
	s, err := h.Business.ChatbotSettings(c.Request.Context(), businessID(c))
	if err != nil {
		respondError(c, "get chatbot settings", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *HandlerBundle) UpdateChatbotSettingsHandler(c *gin.Context) {
	var patch business.ChatbotSettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.Business.UpdateChatbotSettings(c.Request.Context(), businessID(c), patch)
	if err != nil {
		respondError(c, "update chatbot settings", err)
		return
	}
	c.JSON(http.StatusOK, s)
}
