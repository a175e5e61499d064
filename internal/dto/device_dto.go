package dto

type RegisterDeviceRequest struct {
	Token    string `json:"token"    validate:"required,min=10"`
	Platform string `json:"platform" validate:"omitempty,oneof=android ios"`
}

type DeviceResponse struct {
	ID       int64  `json:"id"`
	Token    string `json:"token"`
	Platform string `json:"platform"`
	IsActive bool   `json:"is_active"`
}
