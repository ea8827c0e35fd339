package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Marcos-ViniciusDEV/PDV/internal/service"
)

type SyncHandler struct{ svc *service.SyncService }

func NewSyncHandler(svc *service.SyncService) *SyncHandler { return &SyncHandler{svc: svc} }

// Status reports connectivity and the last probe time.
func (h *SyncHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Status())
}

// Forcar runs one sync cycle immediately.
func (h *SyncHandler) Forcar(c *gin.Context) {
	result := h.svc.ForceSyncNow(c.Request.Context())
	status := http.StatusOK
	if !result.Success && result.Reason != "offline" {
		status = http.StatusBadGateway
	}
	c.JSON(status, result)
}
