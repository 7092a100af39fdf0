package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTaskRequest_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		wantTitle       *string
		wantDescription *string
		wantCompleted   *bool
	}{
		{
			name: "absent fields stay nil",
			body: `{}`,
		},
		{
			name:            "values decoded",
			body:            `{"title":"a","description":"b","completed":true}`,
			wantTitle:       strPtr("a"),
			wantDescription: strPtr("b"),
			wantCompleted:   boolPtr(true),
		},
		{
			name:            "null title and description become empty",
			body:            `{"title":null,"description":null}`,
			wantTitle:       strPtr(""),
			wantDescription: strPtr(""),
		},
		{
			name:      "null completed stays unset",
			body:      `{"title":"a","completed":null}`,
			wantTitle: strPtr("a"),
		},
		{
			name:      "key case does not matter",
			body:      `{"Title":null}`,
			wantTitle: strPtr(""),
		},
		{
			name:      "later value wins over earlier null",
			body:      `{"title":null,"Title":"x"}`,
			wantTitle: strPtr("x"),
		},
		{
			name: "null body",
			body: `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req TaskRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.wantTitle, req.Title)
			assert.Equal(t, tt.wantDescription, req.Description)
			assert.Equal(t, tt.wantCompleted, req.Completed)
		})
	}
}

func TestTaskRequest_UnmarshalJSON_WrongTypes(t *testing.T) {
	for _, body := range []string{`[]`, `{"title":5}`, `{"completed":"yes"}`} {
		var req TaskRequest
		assert.Error(t, json.Unmarshal([]byte(body), &req), body)
	}
}
