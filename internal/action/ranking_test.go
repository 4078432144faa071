package action

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompareLabels(t *testing.T) {
	assert.Negative(t, CompareLabels("Alpha", "Beta"))
	assert.Positive(t, CompareLabels("beta", "alpha"))
	assert.Zero(t, CompareLabels("Same", "Same"))
	assert.NotZero(t, CompareLabels("a", "A"), "comparison is case-sensitive")
	assert.Negative(t, CompareLabels("éclair", "fig"), "accented letters sort with their base letter")
}

func TestSortByRecency(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	never1 := &Action{ID: "n1", Label: Text("Zulu")}
	never2 := &Action{ID: "n2", Label: Text("Able")}
	old := &Action{ID: "old", Label: Text("Old")}
	recent := &Action{ID: "recent", Label: Text("Recent")}
	old.stamp(base)
	recent.stamp(base.Add(time.Minute))

	actions := []*Action{never1, old, never2, recent}
	SortByRecency(actions, nil)

	assert.Equal(t, []string{"recent", "old", "n2", "n1"}, ids(actions))
}
