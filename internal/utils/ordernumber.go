package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GenerateOrderNumber builds a human-readable order number: the "NC-" prefix,
// the current millisecond timestamp in base36, and three random bytes in hex,
// all uppercased. Monotonic enough for display; uniqueness comes from the
// random suffix plus the database's unique index.
func GenerateOrderNumber() string {
	timestamp := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		return fmt.Sprintf("NC-%s-%06X", timestamp, time.Now().UnixNano()&0xFFFFFF)
	}

	return fmt.Sprintf("NC-%s-%s", timestamp, strings.ToUpper(hex.EncodeToString(suffix)))
}

// PaymentReference derives the gateway transaction reference from an order
// number. The timestamp suffix keeps references unique even if an order is
// ever re-initialized with the provider.
func PaymentReference(orderNumber string) string {
	return fmt.Sprintf("%s-%d", orderNumber, time.Now().UnixMilli())
}
