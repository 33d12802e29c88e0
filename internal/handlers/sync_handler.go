package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finsmar/internal/services"
)

// SyncHandler handles manual sync triggers and cycle status reads.
type SyncHandler struct {
	syncService services.SyncServicer
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncService services.SyncServicer) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// TriggerSync handles a manual sync cycle request. The cycle runs inline;
// if one is already running the request is rejected rather than queued.
// @Summary     Trigger a sync cycle
// @Description Run a full sync cycle across all providers
// @Tags        sync
// @Produce     json
// @Success     200 {object} services.CycleResult "Cycle result"
// @Failure     409 {object} ErrorResponse "Sync already in progress"
// @Router      /sync [post]
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	result, err := h.syncService.RunCycle(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSyncStatus handles reading the most recent cycle result.
// @Summary     Get sync status
// @Description Get the result of the most recent sync cycle
// @Tags        sync
// @Produce     json
// @Success     200 {object} services.CycleResult "Last cycle result"
// @Failure     404 {object} ErrorResponse "No cycle has run yet"
// @Router      /sync/status [get]
func (h *SyncHandler) GetSyncStatus(c *gin.Context) {
	result := h.syncService.LastResult()
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "NO_SYNC_YET",
				"message": "No sync cycle has completed yet",
			},
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
