package tokens

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

// AccessClaims is the payload of a signed access token. Subject carries the
// decimal user id.
type AccessClaims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// SigningMethod resolves an HMAC algorithm name such as "HS256".
func SigningMethod(alg string) (jwt.SigningMethod, error) {
	m := jwt.GetSigningMethod(alg)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	if _, ok := m.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	return m, nil
}

func SignAccessToken(claims AccessClaims, method jwt.SigningMethod, secret []byte) (string, error) {
	return jwt.NewWithClaims(method, claims).SignedString(secret)
}

// AccessClaimsFromToken verifies signature, algorithm and expiry. Extra
// parser options (e.g. jwt.WithTimeFunc) are applied after the defaults.
func AccessClaimsFromToken(tokenStr string, method jwt.SigningMethod, secret []byte, opts ...jwt.ParserOption) (*AccessClaims, error) {
	var claims AccessClaims
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
	}
	parserOpts = append(parserOpts, opts...)

	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, parserOpts...)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return &claims, nil
}
