package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/agrocoin/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EventHandler 操作事件查询接口
type EventHandler struct {
	eventLogic *logic.EventLogic
}

// NewEventHandler 创建事件查询接口
func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{
		eventLogic: logic.NewEventLogic(db),
	}
}

// GetEvents 获取事件列表
func (h *EventHandler) GetEvents(c *gin.Context) {
	projectId, _ := strconv.ParseUint(c.DefaultQuery("project_id", "0"), 10, 64)
	eventType := c.Query("event_type")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	events, total, err := h.eventLogic.GetEvents(projectId, eventType, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"events":    events,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
