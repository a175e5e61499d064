package handler

import (
	"net/http"
	"strconv"

	"syapos/internal/apierror"
	"syapos/internal/dto"
	"syapos/internal/middleware"
	"syapos/internal/service"

	"github.com/gin-gonic/gin"
)

type AssignmentsHandler struct {
	svc     service.AssignmentService
	returns service.ReturnService
}

func NewAssignmentsHandler(svc service.AssignmentService, returns service.ReturnService) *AssignmentsHandler {
	return &AssignmentsHandler{svc: svc, returns: returns}
}

// Sync godoc
// @Summary Sincroniza una asignacion de reparto
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SyncAssignmentRequest true "Asignacion"
// @Success 201 {object} dto.SyncEnvelope
// @Success 200 {object} dto.SyncEnvelope
// @Failure 400 {object} apierror.APIError
// @Router /api/sync/assignments [post]
func (h *AssignmentsHandler) Sync(c *gin.Context) {
	var req dto.SyncAssignmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	a, inserted, err := h.svc.Sync(c.Request.Context(), claims.TenantID, claims.BranchID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	syncEnvelope(c, inserted, gin.H{"id": a.ID, "global_id": a.GlobalID.String(), "status": a.Status})
}

// SyncBatch godoc
// @Summary Sincroniza un lote de asignaciones
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SyncAssignmentBatchRequest true "Lote de asignaciones"
// @Success 200 {object} dto.SyncBatchEnvelope
// @Router /api/sync/assignments/batch [post]
func (h *AssignmentsHandler) SyncBatch(c *gin.Context) {
	var req dto.SyncAssignmentBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	results := h.svc.SyncBatch(c.Request.Context(), claims.TenantID, claims.BranchID, req)
	syncBatchEnvelope(c, results)
}

// Liquidate godoc
// @Summary Liquida una asignacion y registra deuda si hay faltante
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param global_id path string true "Global ID de la asignacion"
// @Param body body dto.LiquidateAssignmentRequest true "Datos de liquidacion"
// @Success 200 {object} dto.LiquidationResponse
// @Failure 409 {object} apierror.APIError
// @Router /api/assignments/{global_id}/liquidate [post]
func (h *AssignmentsHandler) Liquidate(c *gin.Context) {
	var req dto.LiquidateAssignmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.Liquidate(c.Request.Context(), claims.TenantID, c.Param("global_id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByEmployee returns an employee's assignments, optionally filtered by
// status (?status=pending).
func (h *AssignmentsHandler) ListByEmployee(c *gin.Context) {
	employeeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.ListByEmployee(c.Request.Context(), claims.TenantID, employeeID, c.Query("status"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// RepartidoresSummary godoc
// @Summary Resumen de repartidores de la sucursal
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.RepartidorSummaryItem
// @Router /api/repartidores/summary [get]
func (h *AssignmentsHandler) RepartidoresSummary(c *gin.Context) {
	claims := middleware.GetClaims(c)

	resp, err := h.svc.RepartidoresSummary(c.Request.Context(), claims.TenantID, claims.BranchID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ListReturns returns all returns registered against one assignment.
func (h *AssignmentsHandler) ListReturns(c *gin.Context) {
	claims := middleware.GetClaims(c)

	resp, err := h.returns.ListByAssignment(c.Request.Context(), claims.TenantID, c.Param("global_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
