package service

import (
	"context"
	"errors"
	"time"

	"syapos/internal/config"
	"syapos/internal/dto"
	"syapos/internal/model"
	"syapos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
}

type authService struct {
	employees repository.EmployeeRepository
	cfg       *config.Config
}

func NewAuthService(employees repository.EmployeeRepository, cfg *config.Config) AuthService {
	return &authService{employees: employees, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	emp, err := s.employees.FindByUsername(ctx, req.TenantID, req.Username)
	if err != nil {
		return nil, errors.New("credenciales invalidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("credenciales invalidas")
	}
	return s.tokenPair(emp)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalido o expirado")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("claims invalidos")
	}
	employeeID, ok := claims["employee_id"].(float64)
	if !ok {
		return nil, errors.New("token mal formado")
	}

	emp, err := s.employees.FindByID(ctx, int64(employeeID))
	if err != nil || !emp.Active {
		return nil, errors.New("empleado no encontrado o inactivo")
	}
	return s.tokenPair(emp)
}

func (s *authService) tokenPair(emp *model.Employee) (*dto.LoginResponse, error) {
	access, err := s.generateToken(emp, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(emp, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Employee: dto.EmployeeResponse{
			ID:               emp.ID,
			GlobalID:         emp.GlobalID.String(),
			Username:         emp.Username,
			FullName:         emp.FullName,
			Email:            emp.Email,
			Role:             emp.Role,
			HomeBranchID:     emp.HomeBranchID,
			MobileCapability: emp.MobileCapability(),
			Active:           emp.Active,
		},
	}, nil
}

func (s *authService) generateToken(emp *model.Employee, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"employee_id":        emp.ID,
		"employee_global_id": emp.GlobalID.String(),
		"tenant_id":          emp.TenantID,
		"branch_id":          emp.HomeBranchID,
		"username":           emp.Username,
		"role":               emp.Role,
		"exp":                time.Now().Add(duration).Unix(),
		"iat":                time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
