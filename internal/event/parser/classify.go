package parser

import (
	"strings"

	"jobmail-backend/internal/event/domain"
)

var interviewWords = []string{"面接", "選考", "インターン", "グループディスカッション", "GD"}
var briefingWords = []string{"説明会", "セミナー"}

// Classify assigns a coarse event type from subject+body text. A result of
// EventTypeOther means the message is not recruiting-event mail; under the
// default sync policy no Event is created for it.
func Classify(text string) domain.EventType {
	for _, w := range interviewWords {
		if strings.Contains(text, w) {
			return domain.EventTypeInterview
		}
	}
	for _, w := range briefingWords {
		if strings.Contains(text, w) {
			return domain.EventTypeBriefing
		}
	}
	return domain.EventTypeOther
}
