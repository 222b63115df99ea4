package jwt

import (
	"errors"
	"fmt"
	"time"

	"social-system/config"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken 请求未携带令牌
	ErrMissingToken = errors.New("token is empty")
	// ErrInvalidToken 签名、签发者、有效期任一校验失败
	ErrInvalidToken = errors.New("invalid token")
)

// JWTService 签发与校验访问令牌（HS256）
// 令牌只证明签发时的身份：用户是否仍存在由业务层确认，
// 删除账户后的吊销由 AuthMiddleware 的 RevocationChecker 负责
type JWTService struct {
	secretKey   []byte
	issuer      string
	expireAfter time.Duration
}

// CustomClaims Subject 为用户ID，Email 仅用于日志与展示
type CustomClaims struct {
	Email string `json:"email,omitempty"`
	jwtv5.RegisteredClaims
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secretKey:   []byte(cfg.Secret),
		issuer:      cfg.Issuer,
		expireAfter: cfg.ExpireTime,
	}
}

// IssueToken 注册或登录成功后为用户签发令牌
func (s *JWTService) IssueToken(userID, email string) (string, error) {
	if userID == "" {
		return "", errors.New("userID is required")
	}

	now := time.Now()
	claims := &CustomClaims{
		Email: email,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(s.expireAfter)),
		},
	}

	signed, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token failed: %w", err)
	}
	return signed, nil
}

// ValidateToken 解析令牌，失败时返回的错误均可用 errors.Is 匹配
// ErrMissingToken 或 ErrInvalidToken
func (s *JWTService) ValidateToken(tokenString string) (*CustomClaims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	claims := &CustomClaims{}
	_, err := jwtv5.ParseWithClaims(tokenString, claims,
		func(*jwtv5.Token) (interface{}, error) { return s.secretKey, nil },
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithIssuer(s.issuer),
		jwtv5.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// Actor 令牌对应的请求发起者
func (c *CustomClaims) Actor() Actor {
	return Actor{UserID: c.Subject, Email: c.Email}
}
