package security

import (
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DeviceIdentity is the authenticated MDT tablet mounted in an
// ambulance. One device account per vehicle.
type DeviceIdentity struct {
	Id              int64
	Username        string
	IMEI            string
	AmbulanceNumber string
}

type DeviceClaims struct {
	DeviceID        int64  `json:"deviceId"`
	Username        string `json:"username"`
	IMEI            string `json:"imei"`
	AmbulanceNumber string `json:"ambulanceNumber"`
	jwt.RegisteredClaims
}

func CreateDeviceToken(identity *DeviceIdentity, base64Secret string, expiresInSeconds int64) (string, error) {
	secretBytes, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return "", err
	}

	claims := DeviceClaims{
		DeviceID:        identity.Id,
		Username:        identity.Username,
		IMEI:            identity.IMEI,
		AmbulanceNumber: identity.AmbulanceNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "rakshak",
			Audience:  []string{"rakshak-mdt"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiresInSeconds) * time.Second)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secretBytes)
}
