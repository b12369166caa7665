package billing

import (
	"fmt"
	"time"
)

// BillNumberPrefix starts every generated bill number
const BillNumberPrefix = "BILL-"

// GenerateBillNumber builds a fallback bill number from the last six digits
// of the millisecond timestamp. Two bills in the same millisecond, or exactly
// 1000 seconds apart, get the same number.
func GenerateBillNumber(now time.Time) string {
	return fmt.Sprintf("%s%06d", BillNumberPrefix, now.UnixMilli()%1_000_000)
}
