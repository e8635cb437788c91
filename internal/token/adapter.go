package token

import (
	"rxcampus/internal/platform/middleware"
)

// ServiceAdapter exposes Service behind the middleware validator interface so
// the auth middleware does not import this package's claim type directly.
type ServiceAdapter struct {
	service *Service
}

func NewServiceAdapter(service *Service) *ServiceAdapter {
	return &ServiceAdapter{service: service}
}

func (a *ServiceAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{
		MemberID:  claims.MemberID,
		SessionID: claims.SessionID,
	}, nil
}
