package repository

import (
	"errors"
	"time"

	authdomain "jobmail-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenRepository stores per-user mail provider credentials.
type TokenRepository interface {
	SaveGmailToken(token *authdomain.GmailToken) error
	FindGmailTokenByUser(userID string) (*authdomain.GmailToken, error)
	SaveIMAPAccount(account *authdomain.IMAPAccount) error
	FindIMAPAccountByUser(userID string) (*authdomain.IMAPAccount, error)
}

// tokenRepository implements TokenRepository using GORM
type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) SaveGmailToken(token *authdomain.GmailToken) error {
	existing, err := r.FindGmailTokenByUser(token.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.AccessToken = token.AccessToken
		if token.RefreshToken != "" {
			existing.RefreshToken = token.RefreshToken
		}
		existing.Expiry = token.Expiry
		existing.UpdatedAt = time.Now()
		return r.db.Save(existing).Error
	}

	token.ID = uuid.New().String()
	token.CreatedAt = time.Now()
	token.UpdatedAt = time.Now()
	return r.db.Create(token).Error
}

func (r *tokenRepository) FindGmailTokenByUser(userID string) (*authdomain.GmailToken, error) {
	var token authdomain.GmailToken
	err := r.db.Where("user_id = ?", userID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) SaveIMAPAccount(account *authdomain.IMAPAccount) error {
	existing, err := r.FindIMAPAccountByUser(account.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Host = account.Host
		existing.Port = account.Port
		existing.Username = account.Username
		existing.Password = account.Password
		existing.UpdatedAt = time.Now()
		return r.db.Save(existing).Error
	}

	account.ID = uuid.New().String()
	if account.Port == 0 {
		account.Port = 993
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()
	return r.db.Create(account).Error
}

func (r *tokenRepository) FindIMAPAccountByUser(userID string) (*authdomain.IMAPAccount, error) {
	var account authdomain.IMAPAccount
	err := r.db.Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}
