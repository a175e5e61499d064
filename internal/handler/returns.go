package handler

import (
	"syapos/internal/dto"
	"syapos/internal/middleware"
	"syapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReturnsHandler struct{ svc service.ReturnService }

func NewReturnsHandler(svc service.ReturnService) *ReturnsHandler {
	return &ReturnsHandler{svc: svc}
}

// Sync godoc
// @Summary Sincroniza una devolucion de mercaderia
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SyncReturnRequest true "Devolucion"
// @Success 201 {object} dto.SyncEnvelope
// @Success 200 {object} dto.SyncEnvelope
// @Failure 400 {object} apierror.APIError
// @Router /api/sync/returns [post]
func (h *ReturnsHandler) Sync(c *gin.Context) {
	var req dto.SyncReturnRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	ret, inserted, err := h.svc.Sync(c.Request.Context(), claims.TenantID, claims.BranchID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	syncEnvelope(c, inserted, gin.H{
		"id":        ret.ID,
		"global_id": ret.GlobalID.String(),
		"amount":    ret.Amount,
	})
}
