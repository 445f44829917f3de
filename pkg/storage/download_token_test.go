package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDownloadSignerRoundTrip(t *testing.T) {
	signer := NewDownloadSigner("secret", time.Hour)

	token, expiresAt, err := signer.Sign("report-1", "assessments-20260901.csv")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	reportID, filename, parsedExpiry, err := signer.Verify(token, false)
	require.NoError(t, err)
	require.Equal(t, "report-1", reportID)
	require.Equal(t, "assessments-20260901.csv", filename)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestDownloadSignerExpiredToken(t *testing.T) {
	signer := NewDownloadSigner("secret", 10*time.Millisecond)

	token, _, err := signer.Sign("report-1", "old.csv")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	_, _, _, err = signer.Verify(token, false)
	require.Error(t, err)

	reportID, filename, _, err := signer.Verify(token, true)
	require.NoError(t, err)
	require.Equal(t, "report-1", reportID)
	require.Equal(t, "old.csv", filename)
}

func TestDownloadSignerRejectsTampering(t *testing.T) {
	signer := NewDownloadSigner("secret", time.Hour)

	token, _, err := signer.Sign("report-1", "results.pdf")
	require.NoError(t, err)

	encoded, sig, ok := strings.Cut(token, ".")
	require.True(t, ok)

	_, _, _, err = signer.Verify("x"+encoded+"."+sig, false)
	require.Error(t, err)

	other := NewDownloadSigner("another-secret", time.Hour)
	_, _, _, err = other.Verify(token, false)
	require.Error(t, err)
}
