// Package reconcile computes how to turn a document's current line items
// into a caller-desired set. The detail id space is caller-visible: lines
// the client keeps arrive with their stable id, new lines arrive with no id
// (or the -1 sentinel) and get server-allocated ids. The planner is pure;
// executing the plan against the store is the repository's job.
package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/tax"
)

// NewLineID is the sentinel detail id meaning "insert a new line".
const NewLineID = -1

// DesiredLine is one requested line item. ProductID may not resolve to an
// existing product; the executor then creates one from ProductName and
// UnitPrice before writing the line.
type DesiredLine struct {
	DetailID    *int
	ProductID   int
	ProductName string
	Quantity    int
	Unit        string
	UnitPrice   decimal.Decimal
}

// IsNew reports whether the line requests an insert rather than an update.
func (l DesiredLine) IsNew() bool {
	return l.DetailID == nil || *l.DetailID == NewLineID
}

// PlannedLine is a desired line with its final detail id and floored amount.
type PlannedLine struct {
	DetailID    int
	ProductID   int
	ProductName string
	Quantity    int
	Unit        string
	UnitPrice   decimal.Decimal
	Amount      int64
}

// Plan lists the writes that reconcile current against desired. After
// execution the live detail id set equals exactly the ids of Updates plus
// Inserts.
type Plan struct {
	Updates   []PlannedLine
	Inserts   []PlannedLine
	DeleteIDs []int
}

// BuildPlan partitions desired into updates, inserts and deletes.
// maxDetailID is the current maximum id across the whole detail table (the
// id space is per table, not per document); allocation is serialized within
// the batch so one request never mints duplicate ids. An empty desired set
// deletes every current line.
func BuildPlan(currentIDs []int, desired []DesiredLine, maxDetailID int) Plan {
	existing := make(map[int]bool, len(currentIDs))
	next := maxDetailID
	for _, id := range currentIDs {
		existing[id] = true
		if id > next {
			next = id
		}
	}

	var plan Plan
	keep := make(map[int]bool, len(desired))
	for _, line := range desired {
		planned := PlannedLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Unit:        line.Unit,
			UnitPrice:   line.UnitPrice,
			Amount:      tax.LineAmount(line.Quantity, line.UnitPrice),
		}
		if planned.Unit == "" {
			planned.Unit = "個"
		}

		switch {
		case line.IsNew():
			next++
			planned.DetailID = next
			plan.Inserts = append(plan.Inserts, planned)
		case existing[*line.DetailID]:
			planned.DetailID = *line.DetailID
			plan.Updates = append(plan.Updates, planned)
		default:
			// Client referenced an id the server doesn't have. Insert under
			// the client's id instead of erroring; defensive fallback.
			planned.DetailID = *line.DetailID
			plan.Inserts = append(plan.Inserts, planned)
			if planned.DetailID > next {
				next = planned.DetailID
			}
		}
		keep[planned.DetailID] = true
	}

	for _, id := range currentIDs {
		if !keep[id] {
			plan.DeleteIDs = append(plan.DeleteIDs, id)
		}
	}
	sort.Ints(plan.DeleteIDs)
	return plan
}
