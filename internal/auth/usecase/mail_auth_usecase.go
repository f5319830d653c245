package usecase

import (
	"context"
	"errors"
	"time"

	authdomain "jobmail-backend/internal/auth/domain"
	authdto "jobmail-backend/internal/auth/dto"
	"jobmail-backend/internal/auth/repository"
	"jobmail-backend/pkg/config"
	"jobmail-backend/pkg/gmail"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// stateExpiry bounds how long a started Gmail authorization flow stays valid.
const stateExpiry = 10 * time.Minute

// MailAuthUsecase connects mail providers to an account: the Gmail OAuth
// flow and plain IMAP credentials.
type MailAuthUsecase interface {
	// GmailAuthorizeURL starts the authorization-code flow and returns the
	// consent URL the client should redirect to.
	GmailAuthorizeURL(userID string) (string, error)

	// GmailCallback finishes the flow: verifies the state, exchanges the
	// code and stores the tokens. Returns the user the flow belongs to.
	GmailCallback(ctx context.Context, state, code string) (string, error)

	ConnectIMAP(userID string, req *authdto.IMAPConnectRequest) error

	// MailConnected reports whether the user has any usable mail provider.
	MailConnected(userID string) (bool, error)
}

type mailAuthUsecase struct {
	tokens repository.TokenRepository
	gmail  *gmail.Service
	config *config.Config
}

func NewMailAuthUsecase(tokens repository.TokenRepository, gmailSvc *gmail.Service, cfg *config.Config) MailAuthUsecase {
	return &mailAuthUsecase{
		tokens: tokens,
		gmail:  gmailSvc,
		config: cfg,
	}
}

func (u *mailAuthUsecase) GmailAuthorizeURL(userID string) (string, error) {
	state, err := u.signState(userID)
	if err != nil {
		return "", err
	}
	cfg := u.gmail.OAuthConfig(u.config.GoogleRedirectURI)
	// AccessTypeOffline + consent prompt so Google hands back a refresh
	// token even on re-authorization.
	return cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

func (u *mailAuthUsecase) GmailCallback(ctx context.Context, state, code string) (string, error) {
	userID, err := u.verifyState(state)
	if err != nil {
		return "", err
	}

	cfg := u.gmail.OAuthConfig(u.config.GoogleRedirectURI)
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return userID, errors.New("failed to exchange authorization code: " + err.Error())
	}

	err = u.tokens.SaveGmailToken(&authdomain.GmailToken{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	})
	if err != nil {
		return userID, err
	}
	return userID, nil
}

func (u *mailAuthUsecase) ConnectIMAP(userID string, req *authdto.IMAPConnectRequest) error {
	return u.tokens.SaveIMAPAccount(&authdomain.IMAPAccount{
		UserID:   userID,
		Host:     req.Host,
		Port:     req.Port,
		Username: req.Username,
		Password: req.Password,
	})
}

func (u *mailAuthUsecase) MailConnected(userID string) (bool, error) {
	token, err := u.tokens.FindGmailTokenByUser(userID)
	if err != nil {
		return false, err
	}
	if token != nil {
		return true, nil
	}
	account, err := u.tokens.FindIMAPAccountByUser(userID)
	if err != nil {
		return false, err
	}
	return account != nil, nil
}

// signState encodes the flow owner into a short-lived signed token so the
// callback cannot be replayed for another user.
func (u *mailAuthUsecase) signState(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"purpose": "gmail_oauth",
		"exp":     time.Now().Add(stateExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *mailAuthUsecase) verifyState(state string) (string, error) {
	token, err := jwt.Parse(state, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid oauth state")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid oauth state claims")
	}
	if purpose, _ := claims["purpose"].(string); purpose != "gmail_oauth" {
		return "", errors.New("invalid oauth state claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("invalid oauth state claims")
	}
	return userID, nil
}
