package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewReferenceID builds a client-facing identifier like "APT_1718000000000_k3x9f":
// a prefix, a millisecond timestamp, and a short random suffix. Unique enough
// for non-adversarial use; not a security token.
func NewReferenceID(prefix string) string {
	var suffix strings.Builder
	for i := 0; i < 5; i++ {
		suffix.WriteByte(base36[rand.Intn(len(base36))])
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix.String())
}
