package utils

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// AnonClaims là payload của anon key kiểu Supabase: một JWT ký sẵn,
// role "anon", phát chung cho mọi client (không gắn với người dùng).
type AnonClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateAnonKey ký anon key mới. Key không có hạn: thu hồi bằng cách
// đổi ANON_KEY_SECRET.
func GenerateAnonKey(secret string) (string, error) {
	claims := &AnonClaims{
		Role: "anon",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "fta-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAnonKey kiểm tra chữ ký và role của anon key.
func VerifyAnonKey(secret, tokenStr string) error {
	token, err := jwt.ParseWithClaims(tokenStr, &AnonClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}

	claims, ok := token.Claims.(*AnonClaims)
	if !ok || !token.Valid {
		return jwt.ErrTokenInvalidClaims
	}
	if claims.Role != "anon" {
		return errors.New("anon key sai role")
	}
	return nil
}
