package imap

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"jobmail-backend/internal/event/domain"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// Service fetches mail over IMAP for accounts that are not connected
// through the Gmail API.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// FetchRecent pulls up to limit of the newest INBOX messages, newest
// first. The mailbox is selected read-only and bodies are fetched with
// BODY.PEEK so nothing gets marked \Seen.
func (s *Service) FetchRecent(ctx context.Context, addr, username, password string, limit int) ([]*domain.FetchedMessage, error) {
	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}
	defer func() { _ = c.Close() }()

	if err := c.Login(username, password).Wait(); err != nil {
		return nil, fmt.Errorf("%w: imap login: %v", domain.ErrAuthRequired, err)
	}
	defer func() {
		if err := c.Logout().Wait(); err != nil {
			log.Printf("[WARN] imap logout: %v", err)
		}
	}()

	if _, err := c.Select("INBOX", &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select inbox: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}

	// Messages older than three months are not interesting for an
	// upcoming-events pipeline.
	cutoff := time.Now().AddDate(0, -3, 0)
	searchData, err := c.UIDSearch(&imap.SearchCriteria{Since: cutoff}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return []*domain.FetchedMessage{}, nil
	}

	// Newest first
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > limit {
		uids = uids[:limit]
	}

	uidSet := imap.UIDSetNum(uids...)

	bodyAll := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}
	fetchOptions := &imap.FetchOptions{
		UID:          true,
		Envelope:     true,
		InternalDate: true,
		BodySection:  []*imap.FetchItemBodySection{bodyAll},
	}

	fetchCmd := c.Fetch(uidSet, fetchOptions)
	defer func() { _ = fetchCmd.Close() }()

	out := make([]*domain.FetchedMessage, 0, len(uids))
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}

		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}

		fm := &domain.FetchedMessage{
			ProviderID: fmt.Sprintf("imap-%d", buf.UID),
		}
		if buf.Envelope != nil {
			fm.Subject = buf.Envelope.Subject
			fm.From = formatSender(buf.Envelope.From)
			if id := strings.TrimSpace(buf.Envelope.MessageID); id != "" {
				fm.ProviderID = id
			}
			if !buf.Envelope.Date.IsZero() {
				fm.HeaderDate = buf.Envelope.Date.Format(time.RFC1123Z)
			}
		}
		if raw := buf.FindBodySection(bodyAll); len(raw) > 0 {
			fm.BodyPlain = extractPlainText(raw)
			fm.Snippet = makeSnippet(fm.BodyPlain)
		}

		out = append(out, fm)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}

	return out, nil
}

// formatSender renders an envelope sender the way a From header reads,
// `Name <addr>`, so the company heuristics can use the display name.
func formatSender(addrs []imap.Address) string {
	if len(addrs) == 0 {
		return ""
	}
	a := &addrs[0]
	addr := strings.TrimSpace(a.Addr())
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return addr
	}
	if addr == "" {
		return name
	}
	return fmt.Sprintf("%s <%s>", name, addr)
}

var imapHTMLTagRe = regexp.MustCompile(`<[^>]*>`)

// extractPlainText walks the MIME tree preferring text/plain, falling back
// to tag-stripped HTML, then to the raw bytes.
func extractPlainText(raw []byte) string {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return string(raw)
	}

	var plain, html string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		if h, ok := p.Header.(*mail.InlineHeader); ok {
			ct, _, _ := h.ContentType()
			body, err := io.ReadAll(p.Body)
			if err != nil {
				continue
			}
			switch ct {
			case "text/plain":
				if plain == "" {
					plain = string(body)
				}
			case "text/html":
				if html == "" {
					html = string(body)
				}
			}
		}
	}

	if plain != "" {
		return plain
	}
	return strings.TrimSpace(imapHTMLTagRe.ReplaceAllString(html, " "))
}

func makeSnippet(body string) string {
	snippet := strings.Join(strings.Fields(body), " ")
	runes := []rune(snippet)
	if len(runes) > 200 {
		return string(runes[:200]) + "..."
	}
	return snippet
}
