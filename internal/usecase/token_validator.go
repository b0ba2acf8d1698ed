package usecase

import (
	"sanatorium-booking/internal/domain/user"
	"sanatorium-booking/internal/pkg/jwt"
	"sanatorium-booking/internal/usecase/shared"
)

// TokenValidator turns a bearer token from the identity service into an Actor.
type TokenValidator interface {
	ValidateToken(tokenString string) (shared.Actor, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (shared.Actor, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return shared.Actor{}, err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return shared.Actor{}, err
	}

	return shared.Actor{ID: claims.UserID, Role: role}, nil
}
