package topup

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// UPI payment addresses: handle@psp. PSP suffixes are alphabetic.
var upiIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{1,255}@[a-zA-Z]{2,64}$`)

// ValidUpiID reports whether s is a syntactically valid UPI payment
// address.
func ValidUpiID(s string) bool {
	return upiIDPattern.MatchString(s)
}

// newReferenceID returns a human-readable unique reference, e.g.
// NCG-20260828-J4K9Q2M7. It is embedded in the UPI transaction note so
// bank SMS/webhook text can be matched back by substring.
func newReferenceID(now time.Time) string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is unrecoverable for reference generation
		panic(fmt.Sprintf("reference id entropy unavailable: %v", err))
	}
	suffix := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)
	return fmt.Sprintf("NCG-%s-%s", now.Format("20060102"), strings.ToUpper(suffix))
}

// buildUpiURI assembles the upi://pay deep link a QR code encodes. The
// reference id rides in the transaction note (tn).
func buildUpiURI(payeeVPA, payeeName string, amountPaise int64, referenceID string) string {
	q := url.Values{}
	q.Set("pa", payeeVPA)
	q.Set("pn", payeeName)
	q.Set("am", formatRupees(amountPaise))
	q.Set("cu", "INR")
	q.Set("tn", referenceID)
	return "upi://pay?" + q.Encode()
}

// formatRupees renders paise as a decimal rupee string ("150" -> "1.50").
func formatRupees(paise int64) string {
	return fmt.Sprintf("%d.%02d", paise/100, paise%100)
}
