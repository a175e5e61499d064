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

type DebtsHandler struct{ svc service.DebtService }

func NewDebtsHandler(svc service.DebtService) *DebtsHandler { return &DebtsHandler{svc: svc} }

// RegisterPayment godoc
// @Summary Registra un pago contra una deuda de empleado
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de la deuda"
// @Param body body dto.RegisterDebtPaymentRequest true "Pago"
// @Success 200 {object} dto.DebtResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /api/debts/{id}/payments [post]
func (h *DebtsHandler) RegisterPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RegisterDebtPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.RegisterPayment(c.Request.Context(), claims.TenantID, id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByEmployee returns an employee's debts, optionally filtered by status.
func (h *DebtsHandler) ListByEmployee(c *gin.Context) {
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

// BranchSummary godoc
// @Summary Deuda agregada por empleado de la sucursal
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.DebtBranchSummaryResponse
// @Router /api/debts/summary [get]
func (h *DebtsHandler) BranchSummary(c *gin.Context) {
	claims := middleware.GetClaims(c)

	resp, err := h.svc.BranchSummary(c.Request.Context(), claims.TenantID, claims.BranchID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
