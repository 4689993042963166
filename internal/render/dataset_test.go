package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
	"github.com/jonesrussell/north-cloud/field-usage/internal/render"
)

func TestDataSets_Combined(t *testing.T) {
	t.Parallel()

	sets := render.DataSets(twoIndexViews(t), false)

	require.Len(t, sets, 1)
	assert.Equal(t, render.AllIndices, sets[0].Name)
	assert.Equal(t, fieldusage.Counts{fc("a", 6), fc("host.name", 2)}, sets[0].Accessed)
	assert.Equal(t, fieldusage.Counts{fc("b", 0), fc("c", 0)}, sets[0].Unaccessed)
}

func TestDataSets_PerIndex(t *testing.T) {
	t.Parallel()

	sets := render.DataSets(twoIndexViews(t), true)

	require.Len(t, sets, 2)
	assert.Equal(t, "logs-1", sets[0].Name)
	assert.Equal(t, fieldusage.Counts{fc("a", 5), fc("host.name", 2)}, sets[0].Accessed)
	assert.Equal(t, fieldusage.Counts{fc("b", 0)}, sets[0].Unaccessed)
	assert.Equal(t, "logs-2", sets[1].Name)
	assert.Equal(t, fieldusage.Counts{fc("c", 0)}, sets[1].Unaccessed)
}

func TestDataSet_Select(t *testing.T) {
	t.Parallel()

	set := sampleSet()
	assert.Empty(t, set.Select(render.Selection{}))
	assert.Equal(t, set.Accessed, set.Select(render.Selection{Accessed: true}))
	assert.Equal(t, fieldusage.Counts{fc("a", 6), fc("host.name", 2), fc("b", 0)}, set.Select(both))
}
