package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NumberPrefix is the fixed prefix of every generated offer number.
const NumberPrefix = "TKF"

// NextNumber derives the next offer number from the tenant's most recently
// created one (by id order). The month segment is always the current month;
// the counter continues from the previous number's third segment.
//
// When there is no prior number, or it is not exactly three hyphen-separated
// segments with a numeric third segment, the counter restarts at 001. Stored
// numbers from migrated datasets must stay parseable, so this keeps the
// historical behavior: the counter is not month-scoped and a parse reset can
// reuse suffixes within a month.
func NextNumber(last string, now time.Time) string {
	month := now.Format("200601")

	if last == "" {
		return fmt.Sprintf("%s-%s-001", NumberPrefix, month)
	}

	parts := strings.Split(last, "-")
	if len(parts) == 3 {
		if n, err := strconv.Atoi(parts[2]); err == nil {
			return fmt.Sprintf("%s-%s-%03d", NumberPrefix, month, n+1)
		}
	}

	return fmt.Sprintf("%s-%s-001", NumberPrefix, month)
}
