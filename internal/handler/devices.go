package handler

import (
	"net/http"

	"syapos/internal/dto"
	"syapos/internal/middleware"
	"syapos/internal/service"

	"github.com/gin-gonic/gin"
)

type DevicesHandler struct{ svc service.DeviceService }

func NewDevicesHandler(svc service.DeviceService) *DevicesHandler {
	return &DevicesHandler{svc: svc}
}

// Register godoc
// @Summary Registra el token FCM del dispositivo del empleado autenticado
// @Tags devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegisterDeviceRequest true "Token del dispositivo"
// @Success 200 {object} dto.DeviceResponse
// @Router /api/devices [post]
func (h *DevicesHandler) Register(c *gin.Context) {
	var req dto.RegisterDeviceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.Register(c.Request.Context(), claims.TenantID, claims.BranchID, claims.EmployeeID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
