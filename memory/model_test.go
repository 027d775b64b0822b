package memory_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/memalpha/memalpha/memory"
)

func TestNewID_Unique(t *testing.T) {
	seen := map[memory.ID]bool{}
	for i := 0; i < 100; i++ {
		id := memory.NewID()
		gt.False(t, seen[id])
		seen[id] = true
	}
}

func TestCreateRequest_Validate(t *testing.T) {
	valid := memory.CreateRequest{ProjectID: "p1", AgentID: "a1", Content: "hello"}
	gt.NoError(t, valid.Validate())

	cases := []struct {
		name string
		req  memory.CreateRequest
		want error
	}{
		{
			name: "missing project",
			req:  memory.CreateRequest{AgentID: "a1", Content: "hello"},
			want: memory.ErrMissingProjectID,
		},
		{
			name: "missing agent",
			req:  memory.CreateRequest{ProjectID: "p1", Content: "hello"},
			want: memory.ErrMissingAgentID,
		},
		{
			name: "empty content",
			req:  memory.CreateRequest{ProjectID: "p1", AgentID: "a1"},
			want: memory.ErrEmptyContent,
		},
		{
			name: "whitespace content",
			req:  memory.CreateRequest{ProjectID: "p1", AgentID: "a1", Content: " \t\n"},
			want: memory.ErrEmptyContent,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gt.True(t, errors.Is(tc.req.Validate(), tc.want))
		})
	}
}

func TestUpdateRequest_Validate(t *testing.T) {
	empty := memory.UpdateRequest{}
	gt.NoError(t, empty.Validate())

	content := "new content"
	gt.NoError(t, (&memory.UpdateRequest{Content: &content}).Validate())

	blank := "   "
	err := (&memory.UpdateRequest{Content: &blank}).Validate()
	gt.True(t, errors.Is(err, memory.ErrEmptyContent))
}
