package services

import (
	"fmt"
	"time"
)

// FormatOrderNumber renders the human readable order number: prefix, the
// creation time in unix milliseconds and the reserved sequence value padded
// to four digits, e.g. ORD-1718000000000-0042.
func FormatOrderNumber(prefix string, createdAt time.Time, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, createdAt.UnixMilli(), seq)
}
