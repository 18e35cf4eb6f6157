package handler

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smenuberu/dashboard/internal/workflow"
)

var errFormExpired = &workflow.ValidationError{Message: "Форма устарела, откройте её заново"}

// issueFormToken signs the id of one form instance for userID. The token
// rides in a hidden field and scopes the draft state and the busy flag.
func (h *Handler) issueFormToken(userID, formID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        formID,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(h.config.Draft.Expiration) * time.Second)),
	})
	return token.SignedString([]byte(h.config.JWT.Secret))
}

// parseFormToken returns the form id if the token is valid and was issued to
// userID.
func (h *Handler) parseFormToken(tokenString, userID string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.config.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || claims.Subject != userID || claims.ID == "" {
		return "", errFormExpired
	}
	return claims.ID, nil
}
