package users_repositories

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	users_models "logview/internal/features/users/models"
	"logview/internal/storage"

	"gorm.io/gorm"
)

type SecretKeyRepository struct{}

// GetSecretKey returns the JWT signing secret, generating and persisting one
// on first use.
func (r *SecretKeyRepository) GetSecretKey() (string, error) {
	var key users_models.SecretKey

	// Take instead of First: the table has a single row and no primary key
	err := storage.GetDb().Take(&key).Error
	if err == nil {
		return key.Secret, nil
	}

	if err != gorm.ErrRecordNotFound {
		return "", fmt.Errorf("failed to read secret key: %w", err)
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}

	key = users_models.SecretKey{Secret: hex.EncodeToString(secret)}
	if err := storage.GetDb().Create(&key).Error; err != nil {
		return "", fmt.Errorf("failed to persist secret key: %w", err)
	}

	return key.Secret, nil
}
