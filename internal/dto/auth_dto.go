package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	TenantID int64  `json:"tenant_id" validate:"required,min=1"`
	Username string `json:"username"  validate:"required,min=1"`
	Password string `json:"password"  validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EmployeeResponse struct {
	ID               int64   `json:"id"`
	GlobalID         string  `json:"global_id"`
	Username         string  `json:"username"`
	FullName         string  `json:"full_name"`
	Email            *string `json:"email"`
	Role             string  `json:"role"`
	HomeBranchID     int64   `json:"home_branch_id"`
	MobileCapability string  `json:"mobile_capability"`
	Active           bool    `json:"active"`
}

type LoginResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	TokenType    string           `json:"token_type"`
	ExpiresIn    int              `json:"expires_in"` // seconds
	Employee     EmployeeResponse `json:"employee"`
}
