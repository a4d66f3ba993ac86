package survey

import (
	"regexp"

	"healthpulse/models"
	"healthpulse/stats"
)

// PII shapes scrubbed from free-text comments on anonymized writes.
var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().-]{6,}\d`)
)

const redacted = "[redacted]"

// anonymize strips identifying detail in place: the location keeps only its
// first segment and PII-looking fragments in the comment are redacted.
func anonymize(r *models.Response) {
	r.Demographics.Location = stats.FirstSegment(r.Demographics.Location)
	r.Comment = emailPattern.ReplaceAllString(r.Comment, redacted)
	r.Comment = phonePattern.ReplaceAllString(r.Comment, redacted)
}
