package handler

import (
	"net/http"
	"strconv"

	"syapos/internal/dto"
	"syapos/internal/middleware"
	"syapos/internal/service"

	"github.com/gin-gonic/gin"
)

type CashCutsHandler struct{ svc service.CashCutService }

func NewCashCutsHandler(svc service.CashCutService) *CashCutsHandler {
	return &CashCutsHandler{svc: svc}
}

// SyncBatch godoc
// @Summary Sincroniza un lote de cortes de caja calculados en el dispositivo
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SyncCashCutBatchRequest true "Lote de cortes"
// @Success 200 {object} dto.SyncBatchEnvelope
// @Router /api/sync/cash-cuts/batch [post]
func (h *CashCutsHandler) SyncBatch(c *gin.Context) {
	var req dto.SyncCashCutBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	results := h.svc.SyncBatch(c.Request.Context(), claims.TenantID, claims.BranchID, req)
	syncBatchEnvelope(c, results)
}

// ListByBranch returns the branch's cash cuts, newest first, paginated.
func (h *CashCutsHandler) ListByBranch(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	claims := middleware.GetClaims(c)

	cuts, total, err := h.svc.ListByBranch(c.Request.Context(), claims.TenantID, claims.BranchID, page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cuts, "total": total, "page": page, "limit": limit})
}
