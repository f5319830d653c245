package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Words that describe the event itself; a span containing one is a subject
// line fragment, not a company name.
var eventWords = []string{
	"面接", "説明会", "選考", "案内",
	"一次", "二次", "最終",
	"インターン", "グループディスカッション", "GD",
}

// Obvious non-company words: notifications, recruiting-contact phrases and
// job-board names. "エージェント" stays off this list so company names like
// サイバーエージェント survive.
var noiseWords = []string{
	"ご案内", "結果", "通過", "受付",
	"担当", "採用チーム", "採用担当",
	"就職", "新卒", "マイナビ", "リクナビ",
}

var legalSuffixes = []string{
	"株式会社", "合同会社", "有限会社", "合資会社", "合名会社",
}

var (
	legalSuffixRe   = buildLegalSuffixRe()
	quotedSenderRe  = regexp.MustCompile(`^"([^"]+)"\s*<`)
	bareSenderRe    = regexp.MustCompile(`^([^<]+)\s*<`)
	personalNameRe  = regexp.MustCompile(`[ぁ-んァ-ン一-龥]{2,4}`)
	trailingParenRe = regexp.MustCompile(`[（(]([^）)]+)[）)]\s*$`)
	trailingDashRe  = regexp.MustCompile(`[—\-ー]\s*([^\s　]{2,40})\s*$`)
	selfIntroRe     = regexp.MustCompile(`([^\n]{2,40}?)(?:採用担当|採用チーム)です`)
)

// buildLegalSuffixRe matches a company token adjacent to a legal-entity
// suffix, e.g. 株式会社Example or Sky株式会社. The token class excludes
// bracket punctuation so decorated subjects like 「ご案内（株式会社Example）」
// yield the company span rather than swallowing the decoration.
func buildLegalSuffixRe() *regexp.Regexp {
	quoted := make([]string, len(legalSuffixes))
	for i, s := range legalSuffixes {
		quoted[i] = regexp.QuoteMeta(s)
	}
	alt := "(?:" + strings.Join(quoted, "|") + ")"
	token := `[^\s　【】\[\]（）()]{1,30}`
	return regexp.MustCompile("(" + alt + token + "|" + token + alt + ")")
}

func looksLikeCompany(s string) bool {
	s = Clean(s)
	if s == "" {
		return false
	}
	for _, w := range eventWords {
		if strings.Contains(s, w) {
			return false
		}
	}
	for _, w := range noiseWords {
		if strings.Contains(s, w) {
			return false
		}
	}
	if n := utf8.RuneCountInString(s); n < 2 || n > 40 {
		return false
	}
	return true
}

// companyFromSender pulls the display-name portion of a From header, e.g.
// `"Sky株式会社" <recruit@skygroup.jp>` -> Sky株式会社. Short CJK runs with
// no legal suffix look like personal given names and are rejected; this is
// a coarse best-effort filter and misfires in both directions.
func companyFromSender(from string) string {
	f := strings.TrimSpace(from)

	var cand string
	if m := quotedSenderRe.FindStringSubmatch(f); m != nil {
		cand = Clean(m[1])
	} else if m := bareSenderRe.FindStringSubmatch(f); m != nil {
		cand = Clean(m[1])
	}
	if cand == "" {
		return ""
	}

	if personalNameRe.MatchString(cand) &&
		!strings.Contains(cand, "株式会社") && !strings.Contains(cand, "合同会社") {
		return ""
	}

	if !looksLikeCompany(cand) {
		return ""
	}
	return cand
}

// ExtractCompanyName guesses the company a message is from. The rules run
// in fixed precision order, first match wins; an empty result means no
// candidate survived.
func ExtractCompanyName(subject, body, from string) string {
	subject = Clean(subject)
	body = Clean(body)
	text := subject + "\n" + body

	// Sender display names mix companies with personal names, so the From
	// header is only the last-resort fallback.
	fromCand := companyFromSender(from)

	// 1) A legal-entity suffix is the strongest signal.
	if m := legalSuffixRe.FindStringSubmatch(text); m != nil {
		return Clean(m[1])
	}

	// 2) 「【会社説明会のご案内】サイバーエージェント」: whatever follows the
	// last closing bracket.
	if strings.Contains(subject, "】") {
		parts := strings.Split(subject, "】")
		if after := Clean(parts[len(parts)-1]); looksLikeCompany(after) {
			return after
		}
	}

	// 3) Subject ending in（company）.
	if m := trailingParenRe.FindStringSubmatch(subject); m != nil {
		if cand := Clean(m[1]); looksLikeCompany(cand) {
			return cand
		}
	}

	// 4) 「面接のご案内 — 楽天株式会社」style dash-separated tail.
	if m := trailingDashRe.FindStringSubmatch(subject); m != nil {
		if cand := Clean(m[1]); looksLikeCompany(cand) {
			return cand
		}
	}

	// 5) Self-introduction in the body: 「◯◯ 採用担当です」.
	if m := selfIntroRe.FindStringSubmatch(body); m != nil {
		if cand := Clean(m[1]); looksLikeCompany(cand) {
			return cand
		}
	}

	return fromCand
}
