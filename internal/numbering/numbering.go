// Package numbering generates human-readable entity codes and document
// numbers. Two deliberately distinct schemes coexist: master-data codes use
// a monthly sequence read back from the store (collision-safe only for
// non-concurrent callers), while quotation/invoice numbers use a date plus
// random suffix with no uniqueness query at all. The asymmetry comes from
// the source system and is kept explicit here rather than unified.
package numbering

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Scheme names which numbering strategy an entity kind uses.
type Scheme int

const (
	// SchemeMonthlySequence reads max(code) for the month prefix and
	// increments. Two concurrent callers can still mint the same code;
	// there is no locking.
	SchemeMonthlySequence Scheme = iota
	// SchemeDatedRandom appends a random 0-999 suffix to the date and
	// never checks for collisions.
	SchemeDatedRandom
)

// Kind is a sequenced entity kind. Its value is the code prefix.
type Kind string

const (
	KindProject       Kind = "PJ"
	KindCustomer      Kind = "CS"
	KindSupplier      Kind = "SP"
	KindProduct       Kind = "PD"
	KindPurchaseOrder Kind = "PO"
	KindExpense       Kind = "EXP"
)

// Width is the zero-padded width of the monthly sequence suffix. Expense
// numbers carry four digits, everything else three.
func (k Kind) Width() int {
	if k == KindExpense {
		return 4
	}
	return 3
}

func (k Kind) Scheme() Scheme {
	return SchemeMonthlySequence
}

// Prefix builds the month-scoped code prefix, e.g. PJ2407 for July 2024.
func Prefix(kind Kind, now time.Time) string {
	return string(kind) + now.Format("0601")
}

// NextInSequence derives the next code from the current maximum code
// matching prefix. An empty maxCode starts the month at 1.
func NextInSequence(maxCode, prefix string, width int) (string, error) {
	if maxCode == "" {
		return prefix + pad(1, width), nil
	}
	if !strings.HasPrefix(maxCode, prefix) {
		return "", fmt.Errorf("code %q does not match prefix %q", maxCode, prefix)
	}
	suffix := maxCode[len(prefix):]
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return "", fmt.Errorf("code %q has non-numeric suffix: %w", maxCode, err)
	}
	return prefix + pad(n+1, width), nil
}

// DatedRandom builds a document number like QT20240715042. A nil intn
// falls back to the shared math/rand source, which is safe for concurrent
// callers; tests pass a deterministic function.
func DatedRandom(prefix string, now time.Time, intn func(int) int) string {
	if intn == nil {
		intn = rand.Intn
	}
	return fmt.Sprintf("%s%s%03d", prefix, now.Format("20060102"), intn(1000))
}

func pad(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
