// Package registration implements the signed customer onboarding sync
// between the gateway and the legacy storefront.
package registration

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"time"
)

// Signature headers carried by every sync request.
const (
	HeaderTimestamp = "X-Grifon-Timestamp"
	HeaderSignature = "X-Grifon-Signature"
)

// Signer produces and verifies the sync request signatures. The signed
// message is the unix timestamp and the raw body joined by a newline, so
// neither can be replayed or altered independently.
type Signer struct {
	secret []byte
}

// NewSigner creates a signer for the shared sync secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign computes the base64 signature for a timestamp and body.
func (s *Signer) Sign(timestamp int64, body []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte{'\n'})
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify checks a signature in constant time and rejects timestamps outside
// the skew window around now.
func (s *Signer) Verify(timestamp int64, body []byte, signature string, now time.Time, maxSkew time.Duration) bool {
	skew := now.Unix() - timestamp
	if skew < 0 {
		skew = -skew
	}
	if time.Duration(skew)*time.Second > maxSkew {
		return false
	}
	expected := s.Sign(timestamp, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
