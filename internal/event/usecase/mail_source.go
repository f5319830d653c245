package usecase

import (
	"context"
	"fmt"

	authdomain "jobmail-backend/internal/auth/domain"
	authrepo "jobmail-backend/internal/auth/repository"
	"jobmail-backend/internal/event/domain"
	"jobmail-backend/pkg/gmail"
	"jobmail-backend/pkg/imap"

	"golang.org/x/oauth2"
)

// providerMailSource picks the mail provider per user: a connected Gmail
// account wins, an IMAP account is the fallback, and a user with neither
// gets domain.ErrAuthRequired.
type providerMailSource struct {
	tokens authrepo.TokenRepository
	gmail  *gmail.Service
	imap   *imap.Service
}

func NewProviderMailSource(tokens authrepo.TokenRepository, gmailSvc *gmail.Service, imapSvc *imap.Service) MailSource {
	return &providerMailSource{
		tokens: tokens,
		gmail:  gmailSvc,
		imap:   imapSvc,
	}
}

func (s *providerMailSource) FetchRecent(ctx context.Context, userID string, limit int) ([]*domain.FetchedMessage, error) {
	gmailToken, err := s.tokens.FindGmailTokenByUser(userID)
	if err != nil {
		return nil, err
	}
	if gmailToken != nil {
		onRefresh := func(t *oauth2.Token) error {
			return s.tokens.SaveGmailToken(&authdomain.GmailToken{
				UserID:       userID,
				AccessToken:  t.AccessToken,
				RefreshToken: t.RefreshToken,
				Expiry:       t.Expiry,
			})
		}
		return s.gmail.FetchRecent(ctx, gmailToken.AccessToken, gmailToken.RefreshToken, limit, onRefresh)
	}

	imapAccount, err := s.tokens.FindIMAPAccountByUser(userID)
	if err != nil {
		return nil, err
	}
	if imapAccount != nil {
		addr := fmt.Sprintf("%s:%d", imapAccount.Host, imapAccount.Port)
		return s.imap.FetchRecent(ctx, addr, imapAccount.Username, imapAccount.Password, limit)
	}

	return nil, domain.ErrAuthRequired
}
