package domain

import "errors"

// ErrAuthRequired signals that the mail provider rejected or lacks
// credentials for the user. Callers surface it so the frontend can prompt
// re-authorization; it is never retried by the sync pipeline.
var ErrAuthRequired = errors.New("mail authorization required")

// FetchedMessage is the provider-independent shape of one mail message as
// returned by the Gmail and IMAP sources, before persistence.
type FetchedMessage struct {
	ProviderID string `json:"id"`
	From       string `json:"from"`
	Subject    string `json:"subject"`
	Snippet    string `json:"snippet"`
	BodyPlain  string `json:"body"`
	// HeaderDate is the raw RFC-2822 Date header, parsed separately into
	// InboundMessage.ReceivedAt.
	HeaderDate string `json:"date"`
}
