package compound

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

func names(p *Page) []string {
	out := make([]string, len(p.Compounds))
	for i, c := range p.Compounds {
		out[i] = c.Name
	}
	return out
}

func floatPtr(v float64) *float64 { return &v }

func TestLibrary_FindByID(t *testing.T) {
	lib := DefaultLibrary()
	ctx := context.Background()

	c, err := lib.FindByID(ctx, "troglitazone")
	require.NoError(t, err)
	assert.Equal(t, "Troglitazone", c.Name)
	assert.Equal(t, RiskHigh, c.RiskCategory())

	c.Name = "mutated"
	again, err := lib.FindByID(ctx, "troglitazone")
	require.NoError(t, err)
	assert.Equal(t, "Troglitazone", again.Name)

	_, err = lib.FindByID(ctx, "unobtainium")
	assert.True(t, errors.IsCode(err, errors.ErrCodeCompoundNotFound))
	assert.True(t, errors.IsNotFound(err))
}

func TestLibrary_FindBySMILES(t *testing.T) {
	lib := DefaultLibrary()
	ctx := context.Background()

	c, err := lib.FindBySMILES(ctx, "CN(C)C(=N)NC(=N)N")
	require.NoError(t, err)
	assert.Equal(t, "metformin", c.ID)

	for _, s := range []string{"", "C", "cn(c)c(=n)nc(=n)n"} {
		_, err = lib.FindBySMILES(ctx, s)
		assert.True(t, errors.IsCode(err, errors.ErrCodeCompoundNotFound), s)
	}
}

func TestLibrary_Count(t *testing.T) {
	n, err := DefaultLibrary().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 19, n)
}

func TestLibrary_ListDefaults(t *testing.T) {
	p, err := DefaultLibrary().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 19, p.Total)
	assert.Len(t, p.Compounds, 19)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.Pages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
	assert.Equal(t, []string{"Acetaminophen", "Amiodarone", "Aspirin"}, names(p)[:3])
}

func TestLibrary_ListFilters(t *testing.T) {
	lib := DefaultLibrary()
	ctx := context.Background()

	p, err := lib.List(ctx, WithSearch("STATIN"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Atorvastatin", "Simvastatin"}, names(p))

	p, err = lib.List(ctx, WithRiskCategory(RiskHigh))
	require.NoError(t, err)
	assert.Equal(t, []string{"Troglitazone"}, names(p))

	p, err = lib.List(ctx, WithRiskCategory(RiskMedium))
	require.NoError(t, err)
	assert.Equal(t, 5, p.Total)

	p, err = lib.List(ctx, WithTC50Range(floatPtr(100), floatPtr(200)))
	require.NoError(t, err)
	assert.Equal(t, 6, p.Total)
	for _, c := range p.Compounds {
		assert.GreaterOrEqual(t, c.TC50, 100.0)
		assert.LessOrEqual(t, c.TC50, 200.0)
	}
}

func TestLibrary_ListSort(t *testing.T) {
	lib := DefaultLibrary()
	ctx := context.Background()

	p, err := lib.List(ctx, WithSort(SortByRiskScore, true))
	require.NoError(t, err)
	assert.Equal(t, "Troglitazone", p.Compounds[0].Name)
	assert.Equal(t, "Metformin", p.Compounds[len(p.Compounds)-1].Name)

	p, err = lib.List(ctx, WithSort(SortByTC50, false))
	require.NoError(t, err)
	for i := 1; i < len(p.Compounds); i++ {
		assert.LessOrEqual(t, p.Compounds[i-1].TC50, p.Compounds[i].TC50)
	}

	p, err = lib.List(ctx, WithSort(SortByName, true))
	require.NoError(t, err)
	assert.Equal(t, "Warfarin", p.Compounds[0].Name)
}

func TestLibrary_ListPagination(t *testing.T) {
	lib := DefaultLibrary()
	ctx := context.Background()

	p, err := lib.List(ctx, WithPagination(5, 5))
	require.NoError(t, err)
	assert.Len(t, p.Compounds, 5)
	assert.Equal(t, 19, p.Total)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 4, p.Pages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p, err = lib.List(ctx, WithPagination(15, 5))
	require.NoError(t, err)
	assert.Len(t, p.Compounds, 4)
	assert.False(t, p.HasNext)

	p, err = lib.List(ctx, WithPagination(100, 10))
	require.NoError(t, err)
	assert.Empty(t, p.Compounds)
	assert.Equal(t, 19, p.Total)
}

func TestLibrary_ListInvalid(t *testing.T) {
	lib := DefaultLibrary()
	ctx := context.Background()

	bad := [][]QueryOption{
		{WithPagination(-1, 10)},
		{WithPagination(0, 0)},
		{WithPagination(0, 101)},
		{WithSort("mass", false)},
		{WithRiskCategory("Severe")},
		{WithTC50Range(floatPtr(50), floatPtr(10))},
	}
	for i, opts := range bad {
		_, err := lib.List(ctx, opts...)
		assert.True(t, errors.IsCode(err, errors.ErrCodeCompoundQueryInvalid), "case %d: %v", i, err)
	}
}

func TestLibrary_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DefaultLibrary().List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

//Personal.AI order the ending
