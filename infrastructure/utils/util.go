package utils

import (
	"time"

	"comment-insight/infrastructure/logger"

	"github.com/golang-jwt/jwt"
)

// LastUpdatedLayout renders timestamps as 2024年01月02日 15:04:05
const LastUpdatedLayout = "2006年01月02日 15:04:05"

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// FormatLastUpdated renders t in local time with LastUpdatedLayout
func FormatLastUpdated(t time.Time) string {
	return t.Local().Format(LastUpdatedLayout)
}

func GenerateToken(payload map[string]interface{}, secretKey string) (string, error) {
	var claims jwt.MapClaims = payload
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}
