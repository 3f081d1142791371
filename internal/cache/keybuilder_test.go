package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-content-cache/internal/models"
)

func TestKeyBuilder_ListKey(t *testing.T) {
	kb := NewKeyBuilder()

	tests := []struct {
		name      string
		resource  string
		params    models.ListParams
		wantKey   string
		wantError bool
	}{
		{
			name:     "page size only",
			resource: "ashaar",
			params:   models.ListParams{PageSize: 30},
			wantKey:  "airtable:ashaar:list:pageSize=30",
		},
		{
			name:     "offset and formula",
			resource: "ghazlen",
			params: models.ListParams{
				PageSize:        10,
				Offset:          "itr123",
				FilterByFormula: "{shaer}='Ghalib'",
			},
			wantKey: "airtable:ghazlen:list:filterByFormula=%7Bshaer%7D%3D%27Ghalib%27&offset=itr123&pageSize=10",
		},
		{
			name:     "sort and fields",
			resource: "nazmen",
			params: models.ListParams{
				Sort:   []models.SortSpec{{Field: "likes", Direction: models.SortDesc}},
				Fields: []string{"unwan", "shaer"},
			},
			wantKey: "airtable:nazmen:list:fields%5B%5D=unwan&fields%5B%5D=shaer&sort%5B0%5D%5Bdirection%5D=desc&sort%5B0%5D%5Bfield%5D=likes",
		},
		{
			name:     "no params",
			resource: "rubai",
			wantKey:  "airtable:rubai:list:",
		},
		{
			name:      "empty resource",
			resource:  "",
			wantError: true,
		},
		{
			name:      "resource with separator",
			resource:  "a:b",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := kb.ListKey(tt.resource, tt.params)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestKeyBuilder_ListKey_Deterministic(t *testing.T) {
	kb := NewKeyBuilder()
	params := models.ListParams{
		PageSize:        30,
		FilterByFormula: "AND({likes}>10)",
		Sort:            []models.SortSpec{{Field: "unwan"}},
	}

	first, err := kb.ListKey("ashaar", params)
	require.NoError(t, err)
	second, err := kb.ListKey("ashaar", params)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := kb.ListKey("ashaar", params.WithOffset("next"))
	require.NoError(t, err)
	assert.NotEqual(t, first, other, "pages must not share a key")
}

func TestKeyBuilder_RecordKey(t *testing.T) {
	kb := NewKeyBuilder()

	key, err := kb.RecordKey("shaer", "rec123")
	require.NoError(t, err)
	assert.Equal(t, "airtable:shaer:record:rec123", key)
	assert.True(t, strings.HasPrefix(key, ResourcePrefix("shaer")))

	_, err = kb.RecordKey("shaer", "")
	assert.Error(t, err)

	_, err = kb.RecordKey("", "rec123")
	assert.Error(t, err)
}
