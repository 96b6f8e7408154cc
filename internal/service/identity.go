package service

import (
	"context"
	"time"

	"github.com/iliyamo/nihongo-sekai/internal/model"
	"github.com/iliyamo/nihongo-sekai/internal/utils"
)

// UserFinder looks users up by id.
type UserFinder interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// IdentityService issues identity tokens for the demo accounts.  There
// are no credentials to check: picking an account is the sign-in.
type IdentityService struct {
	users  UserFinder
	secret string
	ttl    time.Duration
}

func NewIdentityService(users UserFinder, secret string, ttl time.Duration) *IdentityService {
	return &IdentityService{users: users, secret: secret, ttl: ttl}
}

// Demo returns the user and a signed token naming them.
func (s *IdentityService) Demo(ctx context.Context, userID uint64) (model.User, utils.IdentityToken, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, utils.IdentityToken{}, err
	}
	tok, err := utils.NewIdentityToken(s.secret, u, s.ttl)
	if err != nil {
		return model.User{}, utils.IdentityToken{}, err
	}
	return u, tok, nil
}
