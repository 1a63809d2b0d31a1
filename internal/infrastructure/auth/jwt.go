package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Tatu1984/hrms-sub001/internal/shared/authorization"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
)

const issuer = "hrms"

type TokenType string

const TokenTypeAccess TokenType = "access"

// Claims identify the employee a bearer token was issued to. Subject holds
// the employee ID as a decimal string.
type Claims struct {
	EmployeeID uint                   `json:"employee_id"`
	Role       authorization.UserRole `json:"role"`
	TokenType  TokenType              `json:"token_type"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret           []byte
	accessExpMinutes int
	now              func() time.Time
}

func NewJWTService(secret string, accessExpMinutes int) *JWTService {
	if accessExpMinutes <= 0 {
		accessExpMinutes = 60
	}
	return &JWTService{
		secret:           []byte(secret),
		accessExpMinutes: accessExpMinutes,
		now:              biztime.NowUTC,
	}
}

// Generate issues an access token and returns it with its expiry.
func (s *JWTService) Generate(employeeID uint, role authorization.UserRole) (string, time.Time, error) {
	if employeeID == 0 {
		return "", time.Time{}, errors.New("employee ID is required")
	}
	if !role.IsValid() {
		return "", time.Time{}, fmt.Errorf("invalid role %q", role)
	}

	now := s.now()
	exp := now.Add(time.Duration(s.accessExpMinutes) * time.Minute)
	claims := &Claims{
		EmployeeID: employeeID,
		Role:       role,
		TokenType:  TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(employeeID), 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, exp, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, fmt.Errorf("unexpected token type %q", claims.TokenType)
	}
	if claims.EmployeeID == 0 {
		return nil, errors.New("token has no employee")
	}
	return claims, nil
}

// AccessExpMinutes returns the access token expiration time in minutes
func (s *JWTService) AccessExpMinutes() int {
	return s.accessExpMinutes
}
