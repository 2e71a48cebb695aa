package utils

import (
	"fmt"
	"sync"
	"time"
)

const (
	accountNumberPrefix = "TR"
	accountNumberDigits = 12
	accountNumberModulo = 1_000_000_000_000 // 10^accountNumberDigits
)

// AccountNumberGenerator issues "TR" followed by 12 digits derived from the
// clock. Numbers from one generator are strictly increasing until the
// sequence wraps; uniqueness across processes is enforced by the store.
type AccountNumberGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewAccountNumberGenerator returns a generator seeded from now. A nil now uses time.Now.
func NewAccountNumberGenerator(now func() time.Time) *AccountNumberGenerator {
	if now == nil {
		now = time.Now
	}
	return &AccountNumberGenerator{now: now}
}

// Next returns the next account number.
func (g *AccountNumberGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	// 100ns ticks since the Unix epoch
	n := (g.now().UnixNano() / 100) % accountNumberModulo
	if n <= g.last {
		n = (g.last + 1) % accountNumberModulo
	}
	g.last = n
	return fmt.Sprintf("%s%0*d", accountNumberPrefix, accountNumberDigits, n)
}

// IsAccountNumber reports whether s has the account number shape.
func IsAccountNumber(s string) bool {
	if len(s) != len(accountNumberPrefix)+accountNumberDigits || s[:len(accountNumberPrefix)] != accountNumberPrefix {
		return false
	}
	for _, r := range s[len(accountNumberPrefix):] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
