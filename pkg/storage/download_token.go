package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DownloadSigner mints and verifies signed download tokens for report files.
// A token carries the report ID, the file name and an expiry, sealed with an
// HMAC so download links can be handed out without a session.
type DownloadSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewDownloadSigner builds a signer. TTL defaults to 24 hours.
func NewDownloadSigner(secret string, ttl time.Duration) *DownloadSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DownloadSigner{secret: []byte(secret), ttl: ttl}
}

// Sign produces a token for the report file and returns it with its expiry.
func (s *DownloadSigner) Sign(reportID, filename string) (string, time.Time, error) {
	if reportID == "" || filename == "" {
		return "", time.Time{}, fmt.Errorf("report id and filename are required")
	}
	if strings.Contains(reportID, "|") || strings.Contains(filename, "|") {
		return "", time.Time{}, fmt.Errorf("report id and filename must not contain '|'")
	}

	expiresAt := time.Now().Add(s.ttl)
	payload := fmt.Sprintf("%s|%d|%s", reportID, expiresAt.Unix(), filename)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return encoded + "." + s.seal(payload), expiresAt, nil
}

// Verify checks the token's signature and expiry and returns its contents.
// With allowExpired set, an expired but authentic token still parses, which
// lets cleanup identify files behind stale links.
func (s *DownloadSigner) Verify(token string, allowExpired bool) (string, string, time.Time, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return "", "", time.Time{}, fmt.Errorf("malformed download token")
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("malformed download token payload")
	}
	payload := string(raw)
	if !hmac.Equal([]byte(s.seal(payload)), []byte(sig)) {
		return "", "", time.Time{}, fmt.Errorf("download token signature mismatch")
	}

	parts := strings.SplitN(payload, "|", 3)
	if len(parts) != 3 {
		return "", "", time.Time{}, fmt.Errorf("malformed download token payload")
	}
	unix, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("malformed download token expiry")
	}

	expiresAt := time.Unix(unix, 0)
	if !allowExpired && time.Now().After(expiresAt) {
		return "", "", time.Time{}, fmt.Errorf("download token expired")
	}
	return parts[0], parts[2], expiresAt, nil
}

func (s *DownloadSigner) seal(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
