package handlers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientapi "github.com/iudanet/missionflow/internal/client/api"
	"github.com/iudanet/missionflow/internal/server/storage"
	"github.com/iudanet/missionflow/pkg/api"
)

func TestParseQuery(t *testing.T) {
	values, err := url.ParseQuery("user_id=eq.u1&due_date=gte.2026-03-10T00:00:00Z&due_date=lt.2026-03-11T00:00:00Z&order=due_date.desc&limit=10")
	require.NoError(t, err)

	q, err := ParseQuery(values)
	require.NoError(t, err)

	assert.Equal(t, "due_date", q.OrderBy)
	assert.True(t, q.OrderDesc)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, []api.Filter{
		{Field: "due_date", Op: api.OpGte, Value: "2026-03-10T00:00:00Z"},
		{Field: "due_date", Op: api.OpLt, Value: "2026-03-11T00:00:00Z"},
		{Field: "user_id", Op: api.OpEq, Value: "u1"},
	}, q.Filters)
}

func TestParseQuery_RoundTripsClientEncoding(t *testing.T) {
	want := api.Query{}.In("meeting_id", "m1", "m2").NotNull("due_date").Order("start_time", false)

	values, err := url.ParseQuery(clientapi.EncodeQuery(want))
	require.NoError(t, err)

	got, err := ParseQuery(values)
	require.NoError(t, err)
	assert.Equal(t, "start_time", got.OrderBy)
	assert.False(t, got.OrderDesc)
	assert.ElementsMatch(t, want.Filters, got.Filters)
}

func TestParseQuery_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "no operator", query: "status=done"},
		{name: "unknown operator", query: "status=like.done"},
		{name: "bad direction", query: "order=title.sideways"},
		{name: "bad limit", query: "limit=ten"},
		{name: "negative limit", query: "limit=-1"},
		{name: "bad field", query: "bad-field=eq.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			_, err = ParseQuery(values)
			assert.ErrorIs(t, err, storage.ErrInvalidQuery)
		})
	}
}
