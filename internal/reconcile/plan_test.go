package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idp(id int) *int { return &id }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBuildPlanMixedBatch(t *testing.T) {
	// Existing details 7 and 8; the request keeps 7 and adds one new line.
	current := []int{7, 8}
	desired := []DesiredLine{
		{DetailID: idp(7), ProductID: 3, Quantity: 2, UnitPrice: dec("500")},
		{ProductID: 9, ProductName: "New Item", Quantity: 1, UnitPrice: dec("300")},
	}

	plan := BuildPlan(current, desired, 8)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, 7, plan.Updates[0].DetailID)
	assert.Equal(t, int64(1000), plan.Updates[0].Amount)

	require.Len(t, plan.Inserts, 1)
	assert.Equal(t, 9, plan.Inserts[0].DetailID) // max(8)+1
	assert.Equal(t, int64(300), plan.Inserts[0].Amount)

	assert.Equal(t, []int{8}, plan.DeleteIDs)
}

func TestBuildPlanSentinelID(t *testing.T) {
	desired := []DesiredLine{
		{DetailID: idp(NewLineID), ProductID: 1, Quantity: 1, UnitPrice: dec("100")},
	}
	plan := BuildPlan(nil, desired, 41)
	require.Len(t, plan.Inserts, 1)
	assert.Equal(t, 42, plan.Inserts[0].DetailID)
	assert.Empty(t, plan.Updates)
	assert.Empty(t, plan.DeleteIDs)
}

func TestBuildPlanSerializedAllocation(t *testing.T) {
	// Several new lines in one batch must get distinct consecutive ids.
	desired := []DesiredLine{
		{ProductID: 1, Quantity: 1, UnitPrice: dec("10")},
		{ProductID: 2, Quantity: 1, UnitPrice: dec("20")},
		{ProductID: 3, Quantity: 1, UnitPrice: dec("30")},
	}
	plan := BuildPlan([]int{5}, desired, 11)
	require.Len(t, plan.Inserts, 3)
	assert.Equal(t, 12, plan.Inserts[0].DetailID)
	assert.Equal(t, 13, plan.Inserts[1].DetailID)
	assert.Equal(t, 14, plan.Inserts[2].DetailID)
}

func TestBuildPlanUnknownStableID(t *testing.T) {
	// A stable id the server doesn't have falls back to an insert under the
	// client-supplied id, and later allocations skip past it.
	desired := []DesiredLine{
		{DetailID: idp(99), ProductID: 1, Quantity: 1, UnitPrice: dec("10")},
		{ProductID: 2, Quantity: 1, UnitPrice: dec("20")},
	}
	plan := BuildPlan([]int{1}, desired, 1)
	require.Len(t, plan.Inserts, 2)
	assert.Equal(t, 99, plan.Inserts[0].DetailID)
	assert.Equal(t, 100, plan.Inserts[1].DetailID)
	assert.Equal(t, []int{1}, plan.DeleteIDs)
}

func TestBuildPlanEmptyDesiredClearsAll(t *testing.T) {
	plan := BuildPlan([]int{3, 1, 2}, nil, 3)
	assert.Empty(t, plan.Updates)
	assert.Empty(t, plan.Inserts)
	assert.Equal(t, []int{1, 2, 3}, plan.DeleteIDs)
}

func TestBuildPlanDefaultsUnit(t *testing.T) {
	plan := BuildPlan(nil, []DesiredLine{{ProductID: 1, Quantity: 1, UnitPrice: dec("10")}}, 0)
	require.Len(t, plan.Inserts, 1)
	assert.Equal(t, "個", plan.Inserts[0].Unit)
}

// Applying a plan and re-planning with the surviving set must be a no-op
// apart from updates.
func TestBuildPlanIdempotent(t *testing.T) {
	first := BuildPlan([]int{7, 8}, []DesiredLine{
		{DetailID: idp(7), ProductID: 3, Quantity: 2, UnitPrice: dec("500")},
		{ProductID: 9, Quantity: 1, UnitPrice: dec("300")},
	}, 8)

	live := make([]int, 0)
	for _, u := range first.Updates {
		live = append(live, u.DetailID)
	}
	second := make([]DesiredLine, 0)
	for _, u := range first.Updates {
		u := u
		second = append(second, DesiredLine{DetailID: &u.DetailID, ProductID: u.ProductID, Quantity: u.Quantity, Unit: u.Unit, UnitPrice: u.UnitPrice})
	}
	for _, ins := range first.Inserts {
		ins := ins
		live = append(live, ins.DetailID)
		second = append(second, DesiredLine{DetailID: &ins.DetailID, ProductID: ins.ProductID, Quantity: ins.Quantity, Unit: ins.Unit, UnitPrice: ins.UnitPrice})
	}

	plan := BuildPlan(live, second, 9)
	assert.Empty(t, plan.Inserts)
	assert.Empty(t, plan.DeleteIDs)
	assert.Len(t, plan.Updates, 2)
}

// After execution the live id set equals exactly kept ∪ newly minted ids.
func TestBuildPlanCompleteness(t *testing.T) {
	current := []int{1, 2, 3, 4}
	desired := []DesiredLine{
		{DetailID: idp(2), ProductID: 1, Quantity: 1, UnitPrice: dec("10")},
		{DetailID: idp(4), ProductID: 2, Quantity: 1, UnitPrice: dec("10")},
		{ProductID: 3, Quantity: 1, UnitPrice: dec("10")},
	}
	plan := BuildPlan(current, desired, 4)

	final := map[int]bool{}
	for _, id := range current {
		final[id] = true
	}
	for _, id := range plan.DeleteIDs {
		delete(final, id)
	}
	for _, ins := range plan.Inserts {
		assert.False(t, final[ins.DetailID], "insert id %d collides", ins.DetailID)
		final[ins.DetailID] = true
	}

	assert.Equal(t, map[int]bool{2: true, 4: true, 5: true}, final)
}
