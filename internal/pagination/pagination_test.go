package pagination

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID int `json:"id"`
}

func itemKey(i item) string {
	return fmt.Sprintf("%d", i.ID)
}

func pageOf(offset string, ids ...int) Page[item] {
	records := make([]item, len(ids))
	for i, id := range ids {
		records[i] = item{ID: id}
	}
	return Page[item]{Records: records, Offset: offset}
}

func TestFetchMoreData_Dedup(t *testing.T) {
	existing := []item{{ID: 1}, {ID: 2}}
	fetch := func(ctx context.Context, offset string) (Page[item], error) {
		return pageOf("x", 2, 3), nil
	}

	result, err := FetchMoreData(context.Background(), existing, "", fetch, itemKey)

	require.NoError(t, err)
	assert.Equal(t, []item{{ID: 1}, {ID: 2}, {ID: 3}}, result.Records)
	assert.True(t, result.HasMore)
	assert.Equal(t, "x", result.NextOffset)
	assert.Len(t, existing, 2, "existing slice must not be modified")
}

func TestFetchMoreData_DefaultKey(t *testing.T) {
	existing := []item{{ID: 1}, {ID: 2}}
	fetch := func(ctx context.Context, offset string) (Page[item], error) {
		return pageOf("x", 2, 3), nil
	}

	result, err := FetchMoreData(context.Background(), existing, "", fetch, nil)

	require.NoError(t, err)
	assert.Equal(t, []item{{ID: 1}, {ID: 2}, {ID: 3}}, result.Records)
}

func TestFetchMoreData_Termination(t *testing.T) {
	fetch := func(ctx context.Context, offset string) (Page[item], error) {
		return pageOf("", 4), nil
	}

	result, err := FetchMoreData(context.Background(), []item{{ID: 3}}, "x", fetch, itemKey)

	require.NoError(t, err)
	assert.False(t, result.HasMore)
	assert.Empty(t, result.NextOffset)
	assert.Equal(t, []item{{ID: 3}, {ID: 4}}, result.Records)
}

func TestFetchMoreData_PassesOffset(t *testing.T) {
	var got string
	fetch := func(ctx context.Context, offset string) (Page[item], error) {
		got = offset
		return pageOf(""), nil
	}

	_, err := FetchMoreData(context.Background(), nil, "itrABC/recXYZ", fetch, itemKey)

	require.NoError(t, err)
	assert.Equal(t, "itrABC/recXYZ", got)
}

func TestFetchMoreData_Error(t *testing.T) {
	upstreamErr := errors.New("boom")
	fetch := func(ctx context.Context, offset string) (Page[item], error) {
		return Page[item]{}, upstreamErr
	}

	result, err := FetchMoreData(context.Background(), []item{{ID: 1}}, "x", fetch, itemKey)

	assert.ErrorIs(t, err, upstreamErr)
	assert.Nil(t, result.Records)
}

func TestMerge_DedupWithinPage(t *testing.T) {
	merged := Merge([]item{{ID: 1}}, []item{{ID: 2}, {ID: 2}, {ID: 1}}, itemKey)

	assert.Equal(t, []item{{ID: 1}, {ID: 2}}, merged)
}

func TestPaginator_LoadMore(t *testing.T) {
	pages := map[string]Page[item]{
		"":   pageOf("p2", 1, 2),
		"p2": pageOf("p3", 2, 3),
		"p3": pageOf("", 4),
	}
	var sizes []int
	fetch := func(ctx context.Context, state State) (Page[item], error) {
		sizes = append(sizes, state.PageSize)
		return pages[state.Offset], nil
	}

	p := NewPaginator(2, fetch, itemKey)
	ctx := context.Background()

	records, err := p.LoadMore(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.True(t, p.HasMore())
	assert.Equal(t, "p2", p.State().Offset)

	records, err = p.LoadMore(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	records, err = p.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}, records)
	assert.False(t, p.HasMore())

	_, err = p.LoadMore(ctx)
	assert.ErrorIs(t, err, ErrNoMorePages)
	assert.Equal(t, []int{2, 2, 2}, sizes)
}

func TestPaginator_LoadAll(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, state State) (Page[item], error) {
		calls++
		if calls < 5 {
			return pageOf(fmt.Sprintf("p%d", calls+1), calls), nil
		}
		return pageOf("", calls), nil
	}

	t.Run("until last page", func(t *testing.T) {
		calls = 0
		p := NewPaginator(1, fetch, itemKey)

		records, err := p.LoadAll(context.Background(), 0)

		require.NoError(t, err)
		assert.Len(t, records, 5)
		assert.False(t, p.HasMore())
	})

	t.Run("bounded by max pages", func(t *testing.T) {
		calls = 0
		p := NewPaginator(1, fetch, itemKey)

		records, err := p.LoadAll(context.Background(), 2)

		require.NoError(t, err)
		assert.Len(t, records, 2)
		assert.True(t, p.HasMore())
	})
}

func TestPaginator_ErrorKeepsState(t *testing.T) {
	fail := false
	fetch := func(ctx context.Context, state State) (Page[item], error) {
		if fail {
			return Page[item]{}, errors.New("boom")
		}
		return pageOf("p2", 1), nil
	}

	p := NewPaginator(0, fetch, nil)
	_, err := p.LoadMore(context.Background())
	require.NoError(t, err)

	fail = true
	records, err := p.LoadMore(context.Background())
	assert.Error(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "p2", p.State().Offset)
	assert.Equal(t, DefaultPageSize, p.State().PageSize)
}

func TestPaginator_Reset(t *testing.T) {
	fetch := func(ctx context.Context, state State) (Page[item], error) {
		return pageOf("", 1), nil
	}
	p := NewPaginator(5, fetch, itemKey)

	_, err := p.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, p.HasMore())

	p.Reset()
	assert.True(t, p.HasMore())
	assert.Empty(t, p.Records())
}
