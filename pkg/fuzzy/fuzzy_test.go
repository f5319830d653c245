package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"rakuten", "rakuten", 0},
		{"rakuten", "rakutan", 1},
		// Multibyte input counts runes, not bytes.
		{"楽天", "", 2},
		{"楽天株式会社", "楽天", 4},
		{"存在しない会社", "楽天株式会社", 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevenshteinDistance(tt.s1, tt.s2), "%q vs %q", tt.s1, tt.s2)
	}
}

func TestFuzzyMatchEvent(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		company string
		title   string
		want    bool
	}{
		{"substring in company", "楽天", "楽天株式会社", "一次面接のご案内", true},
		{"latin typo in company", "gogle", "Google Japan", "面接日程のご連絡", true},
		{"substring in title", "説明会", "株式会社Example", "会社説明会のご案内", true},
		{"no relation", "銀行", "株式会社Example", "一次面接のご案内", false},
		// A CJK query is long in bytes but short in runes; it must not pick
		// up the widest typo tolerance and match unrelated companies.
		{"cjk query rejects near-length company", "存在しない会社", "楽天株式会社", "一次面接のご案内", false},
		{"cjk query rejects latin-prefixed company", "存在しない会社", "Sky株式会社", "一次面接のご案内", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FuzzyMatchEvent(tt.query, tt.company, tt.title, "", "")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateRelevanceScoreOrdersCompanyFirst(t *testing.T) {
	companyHit := CalculateRelevanceScore("楽天", "楽天株式会社", "面接のご案内", "")
	titleHit := CalculateRelevanceScore("楽天", "株式会社Example", "楽天グループ合同説明会", "")

	assert.Greater(t, companyHit, titleHit)
	assert.Greater(t, titleHit, 0.0)
}
