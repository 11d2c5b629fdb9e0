package jwt

import (
	"encoding/json"
	"fmt"
	"time"

	types "endurance-api/internal/common/type"
	"endurance-api/internal/pkg/helper"
	"endurance-api/internal/pkg/logger"
	"endurance-api/internal/pkg/validation"

	"github.com/golang-jwt/jwt/v5"
)

const (
	UserDataKey = "user_data"
)

func getJWTSecret() []byte {
	secret := helper.GetEnv("JWT_SECRET")
	if secret == "" {
		logger.Warning.Println("JWT_SECRET not found, using default secret")
		secret = "$d3f4uIt_s3cr3t_key#"
	}
	return []byte(secret)
}

func GenerateToken(data types.UserWithAuth) (string, *time.Time) {
	var tokenDuration = 24 * time.Hour
	exp := time.Now().Add(tokenDuration)

	claims := jwt.MapClaims{
		"exp":       exp.Unix(),
		UserDataKey: data,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(getJWTSecret())
	if err != nil {
		return "", nil
	}

	return signedToken, &exp
}

func ValidateToken(jwtToken string) (*types.UserWithAuth, error) {
	token, err := jwt.Parse(jwtToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims[UserDataKey] == nil {
		return nil, fmt.Errorf("user data not found in token claims")
	}

	userDataBytes, err := json.Marshal(claims[UserDataKey])
	if err != nil {
		return nil, fmt.Errorf("error marshalling user data: %v", err)
	}

	var userData types.UserWithAuth
	if err := json.Unmarshal(userDataBytes, &userData); err != nil {
		return nil, fmt.Errorf("error unmarshalling user data: %v", err)
	}

	if err := validation.Validate(userData); err != nil {
		return nil, err
	}

	return &userData, nil
}
