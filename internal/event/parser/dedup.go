package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// missingCompanySentinel serializes "no company extracted" inside the dedup
// key. A distinct sentinel so a company literally named "None" or an empty
// string cannot collide with the missing case.
const missingCompanySentinel = "<none>"

// DedupKey fingerprints one underlying occurrence. Two events with equal
// keys for the same user are the same occurrence. The raw title goes in as
// is, so a reply with a "Re:" prefix produces a different key than the
// original announcement.
func DedupKey(userID, company, title string, startAt time.Time) string {
	if company == "" {
		company = missingCompanySentinel
	}
	base := strings.Join([]string{userID, company, title, startAt.Format(time.RFC3339)}, "|")
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:])
}
