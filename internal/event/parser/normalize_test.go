package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "サイバーエージェント", "サイバーエージェント"},
		{"surrounding whitespace", "  Sky株式会社  ", "Sky株式会社"},
		{"full-width space", "株式会社　Example", "株式会社 Example"},
		{"straight quotes", `"星歩夢"`, "星歩夢"},
		{"curly quotes", "“楽天株式会社”", "楽天株式会社"},
		{"leading bracket run", "【【株式会社Example", "株式会社Example"},
		{"trailing bracket run", "株式会社Example）】", "株式会社Example"},
		{"both brackets", "（ライトハウスコンサルティング）", "ライトハウスコンサルティング"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"【会社説明会のご案内】サイバーエージェント",
		"（株式会社Example）",
		"  楽天株式会社  ",
		"",
	}
	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "input %q", in)
	}
}
