package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"comment-insight/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

type authError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// AdminAuth guards destructive routes with an HS256 bearer token signed with secretKey.
// An empty secretKey leaves the routes open.
func AdminAuth(secretKey string) gin.HandlerFunc {
	if secretKey == "" {
		logger.GetLogger().Warn("admin routes are not protected: SECRET_KEY is empty")
		return func(ctx *gin.Context) { ctx.Next() }
	}

	return func(ctx *gin.Context) {
		res := authError{Error: "Unauthorized"}
		authorization := ctx.GetHeader("Authorization")
		auth := strings.SplitN(authorization, "Bearer ", 2)
		if authorization == "" || len(auth) != 2 || auth[1] == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		claims, token, err := getClaim(auth[1], secretKey)
		if err != nil || token == nil || !token.Valid {
			res.Error = reason(err)
			logger.GetLogger().WithField("reason", res.Error).Warn("admin token rejected")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		ctx.Set("subject", claims.Subject)
		ctx.Next()
	}
}

func reason(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		switch {
		case ve.Errors&jwt.ValidationErrorMalformed != 0:
			return "That's not even a token"
		case ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0:
			return "Timing is everything"
		default:
			return fmt.Sprintf("Couldn't handle this token: %v", err)
		}
	}
	return "Unauthorized"
}

func getClaim(raw, secretKey string) (*jwt.StandardClaims, *jwt.Token, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	return claims, token, err
}
