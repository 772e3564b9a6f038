package app

import (
	crand "crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// randToken draws n base-36 characters from crypto/rand.
func randToken(n int) string {
	buf := make([]byte, n)
	if _, err := crand.Read(buf); err != nil {
		// Degrade to a timestamp-only token; uniqueness is rechecked
		// against the store by the caller.
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	for i, b := range buf {
		buf[i] = base36[int(b)%len(base36)]
	}
	return string(buf)
}

func newBookingID() string {
	return fmt.Sprintf("BK%d%s", time.Now().UnixMilli(), randToken(9))
}

// newBookingReference is the human-readable confirmation number.
func newBookingReference() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return "PVT" + ts + strings.ToUpper(randToken(4))
}

func newPaymentID() string {
	return fmt.Sprintf("PAY%d%s", time.Now().UnixMilli(), randToken(9))
}

func newModificationID() string {
	return fmt.Sprintf("MOD%d%s", time.Now().UnixMilli(), randToken(9))
}

func newKeyID() string {
	return fmt.Sprintf("KEY%d%s", time.Now().UnixMilli(), randToken(9))
}

// newKeyCode is the 4-digit door code printed on room assignments.
func newKeyCode() string {
	buf := make([]byte, 2)
	if _, err := crand.Read(buf); err != nil {
		return "0000"
	}
	n := 1000 + (int(buf[0])<<8|int(buf[1]))%9000
	return strconv.Itoa(n)
}
