package middleware

import (
	"errors"
	"strings"

	"itblog-api/helper"
	"itblog-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

var HTTPHelper = helper.NewHTTPHelper()

var errInvalidClaims = errors.New("token carries no user")

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
)

type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// ParseToken verifies an HMAC signed token with secret.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errInvalidClaims
	}
	return claims, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if authHeader == "" || tokenString == authHeader || tokenString == "" {
		return "", false
	}
	return tokenString, true
}

func setClaims(c *gin.Context, claims *Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextRole, claims.Role)
}

// AccountLookup loads the account behind a token. The user repository
// satisfies it.
type AccountLookup interface {
	GetByID(id uint) (*models.User, error)
}

// Authenticator verifies bearer tokens. With accounts set, every token is
// checked against the stored account so blocks and role changes apply before
// the token expires.
type Authenticator struct {
	secret   []byte
	accounts AccountLookup
}

func NewAuthenticator(secret []byte, accounts AccountLookup) *Authenticator {
	return &Authenticator{secret: secret, accounts: accounts}
}

// Required rejects requests without a valid bearer token.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			HTTPHelper.SendUnauthorizedError(c, models.MsgLoginRequired, HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		claims, err := ParseToken(tokenString, a.secret)
		if err != nil {
			HTTPHelper.SendUnauthorizedError(c, models.MsgLoginRequired, HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		if err := a.refresh(claims); err != nil {
			HTTPHelper.SendErrorFrom(c, err)
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// Optional identifies the caller when a valid token is present and
// otherwise lets the request through as anonymous.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := ParseToken(tokenString, a.secret); err == nil && a.refresh(claims) == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// refresh replaces the token's username and role with the stored ones.
func (a *Authenticator) refresh(claims *Claims) error {
	if a.accounts == nil {
		return nil
	}
	user, err := a.accounts.GetByID(claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewUnauthorizedError(models.MsgLoginRequired)
	}
	if err != nil {
		return models.NewInternalError(models.MsgInternal, err)
	}
	if user.IsBlocked {
		return models.NewForbiddenError(models.MsgAccountBlocked)
	}
	claims.Username = user.Username
	claims.Role = string(user.Role)
	return nil
}

// AuthMiddleware checks the token alone.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return NewAuthenticator(secret, nil).Required()
}

func OptionalAuth(secret []byte) gin.HandlerFunc {
	return NewAuthenticator(secret, nil).Optional()
}

func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextRole)
		if !exists {
			HTTPHelper.SendUnauthorizedError(c, models.MsgLoginRequired, HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		roleStr, _ := userRole.(string)
		for _, role := range roles {
			if roleStr == string(role) {
				c.Next()
				return
			}
		}

		HTTPHelper.SendForbiddenError(c, models.MsgAdminRequired, HTTPHelper.EmptyJsonMap())
		c.Abort()
	}
}

// CurrentActor returns the caller set by the auth middlewares, or the anonymous actor.
func CurrentActor(c *gin.Context) models.Actor {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return models.Actor{}
	}
	actor := models.Actor{}
	actor.ID, _ = id.(uint)
	actor.Username = c.GetString(ContextUsername)
	actor.Role = models.UserRole(c.GetString(ContextRole))
	return actor
}
