package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNumber produces a display code like ORD-20260310-7F3A:
// the creation date plus a short random suffix. Uniqueness is enforced
// by the store; collisions on the 4-hex suffix within one day are rare
// enough that the caller simply retries on a duplicate.
func GenerateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
