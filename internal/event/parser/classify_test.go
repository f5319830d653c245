package parser

import (
	"testing"

	"jobmail-backend/internal/event/domain"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.EventType
	}{
		{"interview", "一次面接のご案内", domain.EventTypeInterview},
		{"selection", "選考結果のお知らせ", domain.EventTypeInterview},
		{"internship", "サマーインターンのご案内", domain.EventTypeInterview},
		{"group discussion", "GD実施のお知らせ", domain.EventTypeInterview},
		{"briefing", "会社説明会のご案内", domain.EventTypeBriefing},
		{"seminar", "業界研究セミナー開催", domain.EventTypeBriefing},
		{"interview wins over briefing", "説明会後の面接について", domain.EventTypeInterview},
		{"unrelated", "アカウントのセキュリティ通知", domain.EventTypeOther},
		{"empty string", "", domain.EventTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}
