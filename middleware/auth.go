package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/xhfmvls/c-buy/models"
)

const (
	userKey  = "user"
	storeKey = "store"

	// BearerSubprotocol precedes the token in Sec-WebSocket-Protocol.
	BearerSubprotocol = "bearer"
)

type UserIdentity struct {
	UserID string
}

// StoreIdentity is present when the caller manages a store.
type StoreIdentity struct {
	StoreID string
}

type Claims struct {
	UserID  string `json:"user_id"`
	StoreID string `json:"store_id,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for userID. storeID may be empty.
func IssueToken(secret, userID, storeID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		StoreID: storeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user")
	}
	return claims, nil
}

// RequireAuth validates the Bearer token and attaches the user and store identities.
func RequireAuth(secret string) gin.HandlerFunc {
	return authenticate(secret, headerToken)
}

// RequireWebSocketAuth is RequireAuth for upgrade requests. Browsers cannot set
// headers on a websocket handshake, so the token may also arrive as the
// subprotocol following "bearer" or as the access_token query parameter.
func RequireWebSocketAuth(secret string) gin.HandlerFunc {
	return authenticate(secret, webSocketToken)
}

func authenticate(secret string, token func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := token(c)
		if tokenString == "" {
			_ = c.Error(models.AuthenticationError("Authorization header is missing"))
			c.Abort()
			return
		}

		claims, err := parseToken(secret, tokenString)
		if err != nil {
			_ = c.Error(models.AuthenticationError(err.Error()))
			c.Abort()
			return
		}

		c.Set(userKey, UserIdentity{UserID: claims.UserID})
		if claims.StoreID != "" {
			c.Set(storeKey, StoreIdentity{StoreID: claims.StoreID})
		}
		c.Next()
	}
}

func headerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		tokenString = header
	}
	return strings.TrimSpace(tokenString)
}

func webSocketToken(c *gin.Context) string {
	if t := headerToken(c); t != "" {
		return t
	}
	protocols := websocket.Subprotocols(c.Request)
	for i, p := range protocols {
		if p == BearerSubprotocol && i+1 < len(protocols) {
			return protocols[i+1]
		}
	}
	return strings.TrimSpace(c.Query("access_token"))
}

func CurrentUser(c *gin.Context) (UserIdentity, error) {
	if v, ok := c.Get(userKey); ok {
		if id, ok := v.(UserIdentity); ok && id.UserID != "" {
			return id, nil
		}
	}
	return UserIdentity{}, models.AuthenticationError("No User Privilege")
}

func CurrentStore(c *gin.Context) (StoreIdentity, error) {
	if v, ok := c.Get(storeKey); ok {
		if id, ok := v.(StoreIdentity); ok && id.StoreID != "" {
			return id, nil
		}
	}
	return StoreIdentity{}, models.AuthenticationError("No Store Privilege")
}
