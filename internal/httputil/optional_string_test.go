package httputil

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalString_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantValue   *string
	}{
		{name: "absent", body: `{}`, wantPresent: false},
		{name: "null", body: `{"parent_id": null}`, wantPresent: true},
		{name: "value", body: `{"parent_id": "p1"}`, wantPresent: true, wantValue: strPtr("p1")},
		{name: "empty string", body: `{"parent_id": ""}`, wantPresent: true, wantValue: strPtr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst struct {
				ParentID OptionalString `json:"parent_id"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.body), &dst))
			assert.Equal(t, tt.wantPresent, dst.ParentID.Present)
			assert.Equal(t, tt.wantValue, dst.ParentID.Value)
		})
	}
}

func TestOptionalString_QueryRoundTrip(t *testing.T) {
	q := url.Values{}
	assert.False(t, QueryParam(q, "parentId").Present)

	q.Set("parentId", "null")
	got := QueryParam(q, "parentId")
	assert.True(t, got.Present)
	assert.Nil(t, got.Value)
	v, ok := got.QueryValue()
	assert.True(t, ok)
	assert.Equal(t, "null", v)

	q.Set("parentId", "p1")
	got = QueryParam(q, "parentId")
	require.NotNil(t, got.Value)
	assert.Equal(t, "p1", *got.Value)

	_, ok = OptionalString{}.QueryValue()
	assert.False(t, ok)
}

func strPtr(s string) *string { return &s }
