package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/techsense/store_be/internal/models"
)

// AccountTokenTTL bounds how long email verification and password
// reset links stay usable.
const AccountTokenTTL = 72 * time.Hour

// MakeAccountToken mints a one-time token bound to the user's current
// state. The MAC covers the password hash and the active flag, so
// activating the account or changing the password invalidates every
// outstanding token without any server-side bookkeeping.
func MakeAccountToken(secret string, u *models.User) string {
	return makeAccountTokenAt(secret, u, time.Now())
}

func makeAccountTokenAt(secret string, u *models.User, issued time.Time) string {
	ts := strconv.FormatInt(issued.Unix(), 36)
	return ts + "-" + accountTokenMAC(secret, u, ts)
}

// CheckAccountToken verifies the token against the user's current
// state and the validity window.
func CheckAccountToken(secret, token string, u *models.User) bool {
	parts := strings.SplitN(token, "-", 2)
	if len(parts) != 2 {
		return false
	}
	issued, err := strconv.ParseInt(parts[0], 36, 64)
	if err != nil {
		return false
	}
	age := time.Since(time.Unix(issued, 0))
	if age < 0 || age > AccountTokenTTL {
		return false
	}
	expected := parts[0] + "-" + accountTokenMAC(secret, u, parts[0])
	return hmac.Equal([]byte(token), []byte(expected))
}

func accountTokenMAC(secret string, u *models.User, ts string) string {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%s|%s|%t|%s", u.ID, u.Password, u.IsActive, ts)
	return hex.EncodeToString(h.Sum(nil))[:32]
}
