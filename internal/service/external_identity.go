package service

import (
	"strings"
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// ExternalIdentity 外部身份提供方断言的身份
type ExternalIdentity struct {
	Provider string
	Email    string
	Name     string
}

type externalIDClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// ExternalIdentityVerifier 校验外部身份提供方签发的 HS256 ID Token
type ExternalIdentityVerifier struct {
	cfg config.ExternalAuthConfig
	now func() time.Time
}

// NewExternalIdentityVerifier 创建外部身份校验器
func NewExternalIdentityVerifier(cfg config.ExternalAuthConfig) *ExternalIdentityVerifier {
	return &ExternalIdentityVerifier{cfg: cfg, now: time.Now}
}

// Verify 校验 ID Token 并提取邮箱与姓名
func (v *ExternalIdentityVerifier) Verify(idToken string) (*ExternalIdentity, error) {
	if v == nil || !v.cfg.Enabled || strings.TrimSpace(v.cfg.Secret) == "" {
		return nil, ErrExternalAuthDisabled
	}
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if issuer := strings.TrimSpace(v.cfg.Issuer); issuer != "" {
		options = append(options, jwt.WithIssuer(issuer))
	}
	claims := &externalIDClaims{}
	token, err := jwt.NewParser(options...).ParseWithClaims(strings.TrimSpace(idToken), claims, func(*jwt.Token) (interface{}, error) {
		return []byte(v.cfg.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	email := normalizeEmail(claims.Email)
	if !token.Valid || !isValidEmail(email) {
		return nil, ErrInvalidToken
	}
	provider := strings.TrimSpace(v.cfg.Provider)
	if provider == "" {
		provider = "external"
	}
	return &ExternalIdentity{
		Provider: provider,
		Email:    email,
		Name:     strings.TrimSpace(claims.Name),
	}, nil
}
