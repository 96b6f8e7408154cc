package utils // package utils provides helpers for signing and reading identity tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/nihongo-sekai/internal/model"
)

// IdentityToken is a signed HS256 JWT naming the current user, along with
// its expiry.  It identifies a caller; it grants nothing by itself.
type IdentityToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expiresAt"`
}

// ErrInvalidIdentity is returned by ParseIdentity for any token that does
// not verify or lacks a numeric subject.
var ErrInvalidIdentity = errors.New("invalid identity token")

// NewIdentityToken signs a token for u.  The claims are sub (user id as a
// decimal string), name, role, exp and iat.
func NewIdentityToken(secret string, u model.User, ttl time.Duration) (IdentityToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(u.ID, 10),
		"name": u.Name,
		"role": string(u.Role),
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return IdentityToken{}, err
	}
	return IdentityToken{Token: signed, Exp: exp}, nil
}

// ParseIdentity verifies raw with secret and returns the user it names.
// Only ID, Name and Role are populated.
func ParseIdentity(secret, raw string) (model.User, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return model.User{}, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.User{}, ErrInvalidIdentity
	}
	sub, _ := claims.GetSubject()
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return model.User{}, fmt.Errorf("%w: subject %q", ErrInvalidIdentity, sub)
	}
	u := model.User{ID: id}
	u.Name, _ = claims["name"].(string)
	if r, ok := claims["role"].(string); ok {
		if role, err := model.ParseRole(r); err == nil {
			u.Role = role
		}
	}
	return u, nil
}
