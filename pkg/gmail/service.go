package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"jobmail-backend/internal/event/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// TokenUpdateFunc is a callback that persists a refreshed OAuth token.
type TokenUpdateFunc func(*oauth2.Token) error

type Service struct {
	clientID     string
	clientSecret string
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	callback TokenUpdateFunc

	// mu guards current: the fetch goroutines share one client, so refresh
	// detection has to be a serialized compare-and-set or a rotation would
	// fire the persist callback once per goroutine.
	mu      sync.Mutex
	current *oauth2.Token
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	changed := s.current.AccessToken != t.AccessToken
	if changed {
		s.current = t
	}
	s.mu.Unlock()

	if changed && s.callback != nil {
		if err := s.callback(t); err != nil {
			log.Printf("[WARN] failed to persist refreshed token: %v", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// OAuthConfig is the authorization-code flow configuration used by the
// /gmail/authorize and /gmail/callback endpoints. Read-only scope: the
// pipeline never mutates the mailbox.
func (s *Service) OAuthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{gmail.GmailReadonlyScope},
		Endpoint:     google.Endpoint,
	}
}

// getGmailService creates a Gmail client with the user's tokens, wrapping
// the token source so refreshes reach the persistence callback.
func (s *Service) getGmailService(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if refreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	tokenSource := config.TokenSource(ctx, token)

	wrappedSource := &notifyTokenSource{
		src:      tokenSource,
		current:  token,
		callback: onTokenRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}

	return srv, nil
}

// FetchRecent retrieves up to limit of the newest inbox messages with
// decoded plain-text bodies, newest first.
func (s *Service) FetchRecent(ctx context.Context, accessToken, refreshToken string, limit int, onTokenRefresh TokenUpdateFunc) ([]*domain.FetchedMessage, error) {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	user := "me"
	requestLimit := int64(limit)
	if requestLimit <= 0 {
		requestLimit = 50
	}

	listResp, err := srv.Users.Messages.List(user).
		LabelIds("INBOX").MaxResults(requestLimit).Do()
	if err != nil {
		return nil, wrapProviderError(err)
	}

	type fetchResult struct {
		msg      *domain.FetchedMessage
		internal int64
		err      error
	}

	resultChan := make(chan fetchResult, len(listResp.Messages))
	semaphore := make(chan struct{}, 10) // Max 10 concurrent requests

	for _, m := range listResp.Messages {
		go func(msgID string) {
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			fullMsg, err := srv.Users.Messages.Get(user, msgID).Format("full").Do()
			if err != nil {
				resultChan <- fetchResult{err: err}
				return
			}
			resultChan <- fetchResult{
				msg:      convertMessage(fullMsg),
				internal: fullMsg.InternalDate,
			}
		}(m.Id)
	}

	type ordered struct {
		msg      *domain.FetchedMessage
		internal int64
	}
	fetched := make([]ordered, 0, len(listResp.Messages))
	for i := 0; i < len(listResp.Messages); i++ {
		result := <-resultChan
		if result.err != nil {
			log.Printf("[WARN] fetch gmail message: %v", result.err)
			continue
		}
		fetched = append(fetched, ordered{result.msg, result.internal})
	}

	// Parallel fetching returns messages in random order
	sort.Slice(fetched, func(i, j int) bool {
		return fetched[i].internal > fetched[j].internal
	})

	messages := make([]*domain.FetchedMessage, 0, len(fetched))
	for _, f := range fetched {
		messages = append(messages, f.msg)
	}
	return messages, nil
}

// ValidateToken checks the credentials with a cheap profile call.
func (s *Service) ValidateToken(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) error {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return err
	}
	if _, err := srv.Users.GetProfile("me").Do(); err != nil {
		return wrapProviderError(err)
	}
	return nil
}

// wrapProviderError maps credential failures onto ErrAuthRequired so the
// caller can distinguish "re-authorize" from transient provider trouble.
func wrapProviderError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == 401 || gerr.Code == 403) {
		return fmt.Errorf("%w: %v", domain.ErrAuthRequired, err)
	}
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return fmt.Errorf("%w: %v", domain.ErrAuthRequired, err)
	}
	return err
}

// Helper functions

func convertMessage(msg *gmail.Message) *domain.FetchedMessage {
	return &domain.FetchedMessage{
		ProviderID: msg.Id,
		From:       getHeader(msg.Payload.Headers, "From"),
		Subject:    getHeader(msg.Payload.Headers, "Subject"),
		Snippet:    msg.Snippet,
		BodyPlain:  getPlainBody(msg.Payload),
		HeaderDate: getHeader(msg.Payload.Headers, "Date"),
	}
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// getPlainBody prefers the text/plain part; an HTML-only message is
// stripped down to text so the extraction heuristics still have something
// to work with.
func getPlainBody(payload *gmail.MessagePart) string {
	if payload.Body != nil && payload.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(payload.Body.Data)
		if err == nil {
			if payload.MimeType == "text/html" {
				return htmlToText(string(data))
			}
			return string(data)
		}
	}

	var htmlBody string
	var plainBody string

	var findBody func(parts []*gmail.MessagePart)
	findBody = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.MimeType == "text/html" {
				if part.Body != nil && part.Body.Data != "" {
					data, err := base64.URLEncoding.DecodeString(part.Body.Data)
					if err == nil {
						htmlBody = string(data)
					}
				}
			} else if part.MimeType == "text/plain" {
				if part.Body != nil && part.Body.Data != "" {
					data, err := base64.URLEncoding.DecodeString(part.Body.Data)
					if err == nil {
						plainBody = string(data)
					}
				}
			}

			if len(part.Parts) > 0 {
				findBody(part.Parts)
			}
		}
	}

	findBody(payload.Parts)

	if plainBody != "" {
		return plainBody
	}
	return htmlToText(htmlBody)
}

func htmlToText(body string) string {
	text := htmlTagRe.ReplaceAllString(body, " ")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	return strings.TrimSpace(text)
}
