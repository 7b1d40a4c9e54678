package unit_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/unit"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Units(ctx context.Context, filter gateway.UnitFilter) ([]gateway.Unit, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.Unit), args.Error(1)
}

func units(n int) []gateway.Unit {
	out := make([]gateway.Unit, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, gateway.Unit{ID: int64(i), Name: fmt.Sprintf("Casa %d", i)})
	}
	return out
}

func TestListing_SearchAndRefresh(t *testing.T) {
	src := new(MockSource)
	filter := gateway.UnitFilter{Name: "Casa", CartStatus: "Pago"}
	src.On("Units", mock.Anything, filter).Return(units(3), nil).Once()
	src.On("Units", mock.Anything, filter).Return(units(4), nil).Once()

	listing := unit.NewListing(src)

	got, err := listing.Search(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	require.NoError(t, listing.Refresh(context.Background()))
	assert.Equal(t, 4, listing.Page(1, 10).Total, "refresh re-runs the last filter")
	src.AssertExpectations(t)
}

func TestListing_SearchErrorKeepsPreviousResult(t *testing.T) {
	src := new(MockSource)
	src.On("Units", mock.Anything, gateway.UnitFilter{}).Return(units(2), nil).Once()
	src.On("Units", mock.Anything, gateway.UnitFilter{Person: "Ana"}).Return(nil, errors.New("timeout")).Once()

	listing := unit.NewListing(src)
	_, err := listing.Search(context.Background(), gateway.UnitFilter{})
	require.NoError(t, err)

	_, err = listing.Search(context.Background(), gateway.UnitFilter{Person: "Ana"})
	require.Error(t, err)
	assert.Equal(t, 2, listing.Page(1, 10).Total)
}

func TestListing_Page(t *testing.T) {
	src := new(MockSource)
	src.On("Units", mock.Anything, gateway.UnitFilter{}).Return(units(25), nil).Once()
	listing := unit.NewListing(src)
	_, err := listing.Search(context.Background(), gateway.UnitFilter{})
	require.NoError(t, err)

	tests := []struct {
		name        string
		page        int
		perPage     int
		wantIDs     []int64
		wantPage    int
		wantPerPage int
	}{
		{name: "first page", page: 1, perPage: 10, wantIDs: []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, wantPage: 1, wantPerPage: 10},
		{name: "last partial page", page: 3, perPage: 10, wantIDs: []int64{21, 22, 23, 24, 25}, wantPage: 3, wantPerPage: 10},
		{name: "past the end", page: 4, perPage: 10, wantIDs: []int64{}, wantPage: 4, wantPerPage: 10},
		{name: "defaults", page: 0, perPage: 0, wantIDs: []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, wantPage: 1, wantPerPage: 10},
		{name: "small pages", page: 2, perPage: 5, wantIDs: []int64{6, 7, 8, 9, 10}, wantPage: 2, wantPerPage: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := listing.Page(tt.page, tt.perPage)
			ids := []int64{}
			for _, u := range p.Units {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
			assert.Equal(t, 25, p.Total)
		})
	}
}

func TestListing_Find(t *testing.T) {
	src := new(MockSource)
	src.On("Units", mock.Anything, gateway.UnitFilter{}).Return(units(3), nil).Once()
	listing := unit.NewListing(src)
	_, err := listing.Search(context.Background(), gateway.UnitFilter{})
	require.NoError(t, err)

	u, ok := listing.Find(2)
	require.True(t, ok)
	assert.Equal(t, "Casa 2", u.Name)

	_, ok = listing.Find(99)
	assert.False(t, ok)
}

func TestListing_Lookup(t *testing.T) {
	src := new(MockSource)
	src.On("Units", mock.Anything, gateway.UnitFilter{Name: "Casa 1"}).Return(units(1), nil).Once()
	src.On("Units", mock.Anything, gateway.UnitFilter{}).Return(units(5), nil).Twice()
	listing := unit.NewListing(src)
	_, err := listing.Search(context.Background(), gateway.UnitFilter{Name: "Casa 1"})
	require.NoError(t, err)

	u, err := listing.Lookup(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	u, err = listing.Lookup(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Casa 4", u.Name)
	assert.Equal(t, 1, listing.Page(1, 10).Total, "the fallback does not replace the cache")

	_, err = listing.Lookup(context.Background(), 42)
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}
