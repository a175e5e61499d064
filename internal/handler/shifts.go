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

type ShiftsHandler struct {
	svc       service.ShiftService
	snapshots service.SnapshotService
}

func NewShiftsHandler(svc service.ShiftService, snapshots service.SnapshotService) *ShiftsHandler {
	return &ShiftsHandler{svc: svc, snapshots: snapshots}
}

// SyncOpen godoc
// @Summary Sincroniza la apertura de un turno desde un dispositivo
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SyncShiftOpenRequest true "Apertura de turno"
// @Success 201 {object} dto.SyncEnvelope
// @Success 200 {object} dto.SyncEnvelope
// @Failure 409 {object} apierror.APIError
// @Router /api/sync/shifts/open [post]
func (h *ShiftsHandler) SyncOpen(c *gin.Context) {
	var req dto.SyncShiftOpenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	shift, inserted, err := h.svc.SyncOpen(c.Request.Context(), claims.TenantID, claims.BranchID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	syncEnvelope(c, inserted, shiftResponse(shift))
}

// SyncClose godoc
// @Summary Sincroniza el cierre de un turno desde un dispositivo
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SyncShiftCloseRequest true "Cierre de turno"
// @Success 200 {object} dto.SyncEnvelope
// @Failure 400 {object} apierror.APIError
// @Router /api/sync/shifts/close [post]
func (h *ShiftsHandler) SyncClose(c *gin.Context) {
	var req dto.SyncShiftCloseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	shift, err := h.svc.SyncClose(c.Request.Context(), claims.TenantID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SyncEnvelope{Success: true, Message: "turno cerrado", Data: shiftResponse(shift)})
}

// Open godoc
// @Summary Abre un turno para el empleado autenticado
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenShiftRequest true "Datos de apertura"
// @Success 201 {object} dto.ShiftResponse
// @Failure 409 {object} apierror.APIError
// @Router /api/shifts/open [post]
func (h *ShiftsHandler) Open(c *gin.Context) {
	var req dto.OpenShiftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	shift, err := h.svc.Open(c.Request.Context(), claims.TenantID, claims.BranchID, claims.EmployeeID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shiftResponse(shift))
}

// Close godoc
// @Summary Cierra el turno abierto del empleado y genera el corte de caja
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CloseShiftRequest true "Efectivo contado"
// @Success 200 {object} dto.ShiftResponse
// @Failure 409 {object} apierror.APIError
// @Router /api/shifts/close [post]
func (h *ShiftsHandler) Close(c *gin.Context) {
	var req dto.CloseShiftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	shift, cut, err := h.svc.Close(c.Request.Context(), claims.TenantID, claims.EmployeeID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shift": shiftResponse(shift),
		"cash_cut": gin.H{
			"id":            cut.ID,
			"global_id":     cut.GlobalID.String(),
			"expected_cash": cut.ExpectedCashInDrawer,
			"counted_cash":  cut.CountedCash,
			"difference":    cut.Difference,
		},
	})
}

// Current returns the authenticated employee's open shift, if any.
func (h *ShiftsHandler) Current(c *gin.Context) {
	claims := middleware.GetClaims(c)
	shift, err := h.svc.Current(c.Request.Context(), claims.TenantID, claims.EmployeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, shiftResponse(shift))
}

// History returns closed shifts for the branch, paginated.
func (h *ShiftsHandler) History(c *gin.Context) {
	var f dto.ShiftHistoryFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parametros invalidos"))
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.History(c.Request.Context(), claims.TenantID, claims.BranchID, f)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Summary godoc
// @Summary Resumen en vivo de un turno
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del turno"
// @Success 200 {object} dto.ShiftSummaryResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/shifts/{id}/summary [get]
func (h *ShiftsHandler) Summary(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.Summary(c.Request.Context(), claims.TenantID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CashSnapshot godoc
// @Summary Snapshot de conciliacion de efectivo de un turno
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del turno"
// @Param recalculate query bool false "Forzar recalculo"
// @Success 200 {object} dto.CashSnapshotResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/shifts/{id}/cash-snapshot [get]
func (h *ShiftsHandler) CashSnapshot(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	force := c.Query("recalculate") == "true"
	claims := middleware.GetClaims(c)

	snap, err := h.snapshots.GetForShift(c.Request.Context(), claims.TenantID, id, force)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshotResponse(snap))
}
