package utils

import (
	"strings"
	"time"

	"vritti/backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// NewDeviceID returns a fresh random device id.
func NewDeviceID() string {
	return uuid.NewString()
}

// GenerateDeviceToken signs a token scoping requests to one device. It does
// not identify a person.
func GenerateDeviceToken(deviceID string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"device_id": deviceID,
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(time.Duration(cfg.TokenTTLHours) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseDeviceToken validates the signature and expiry and returns the device id.
func ParseDeviceToken(tokenString string, cfg *config.Config) (string, error) {
	tokenString = strings.TrimSpace(tokenString)
	if scheme, rest, ok := strings.Cut(tokenString, " "); ok && strings.EqualFold(scheme, "Bearer") {
		tokenString = strings.TrimSpace(rest)
	}
	if tokenString == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Missing device token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid device token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	deviceID, ok := claims["device_id"].(string)
	if !ok || deviceID == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid device id in token")
	}
	if _, err := uuid.Parse(deviceID); err != nil {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid device id in token")
	}
	return deviceID, nil
}

func ExtractDeviceIDFromToken(c *fiber.Ctx, cfg *config.Config) (string, error) {
	return ParseDeviceToken(c.Get(fiber.HeaderAuthorization), cfg)
}
