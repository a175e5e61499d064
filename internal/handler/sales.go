package handler

import (
	"net/http"
	"strconv"

	"syapos/internal/apierror"
	"syapos/internal/dto"
	"syapos/internal/middleware"
	"syapos/internal/model"
	"syapos/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Sync godoc
// @Summary Sincroniza una venta
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SyncSaleRequest true "Venta"
// @Success 201 {object} dto.SyncEnvelope
// @Success 200 {object} dto.SyncEnvelope
// @Failure 400 {object} apierror.APIError
// @Router /api/sync/sales [post]
func (h *SalesHandler) Sync(c *gin.Context) {
	var req dto.SyncSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	sale, inserted, err := h.svc.Sync(c.Request.Context(), claims.TenantID, claims.BranchID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	syncEnvelope(c, inserted, gin.H{"id": sale.ID, "global_id": sale.GlobalID.String()})
}

// SyncBatch godoc
// @Summary Sincroniza un lote de ventas
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SyncSaleBatchRequest true "Lote de ventas"
// @Success 200 {object} dto.SyncBatchEnvelope
// @Router /api/sync/sales/batch [post]
func (h *SalesHandler) SyncBatch(c *gin.Context) {
	var req dto.SyncSaleBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	results := h.svc.SyncBatch(c.Request.Context(), claims.TenantID, claims.BranchID, req)
	syncBatchEnvelope(c, results)
}

// ── Cash movements ────────────────────────────────────────────────────────────
// One handler serves the three movement kinds; the route binds the kind.

type MovementsHandler struct{ svc service.MovementService }

func NewMovementsHandler(svc service.MovementService) *MovementsHandler {
	return &MovementsHandler{svc: svc}
}

// SyncKind returns a gin handler that lands a movement of the given kind.
func (h *MovementsHandler) SyncKind(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SyncMovementRequest
		if !bindAndValidate(c, &req) {
			return
		}
		claims := middleware.GetClaims(c)

		m, inserted, err := h.svc.Sync(c.Request.Context(), claims.TenantID, claims.BranchID, kind, req)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		syncEnvelope(c, inserted, gin.H{"id": m.ID, "global_id": m.GlobalID.String(), "kind": m.Kind})
	}
}

// ListByShift lists a shift's movements, optionally one kind (?kind=expense).
func (h *MovementsHandler) ListByShift(c *gin.Context) {
	shiftID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	kind := c.Query("kind")
	switch kind {
	case "", model.MovementExpense, model.MovementDeposit, model.MovementWithdrawal:
	default:
		c.JSON(http.StatusBadRequest, apierror.New("tipo de movimiento desconocido"))
		return
	}

	claims := middleware.GetClaims(c)
	list, err := h.svc.ListByShift(c.Request.Context(), claims.TenantID, shiftID, kind)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}
