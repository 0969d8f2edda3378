package tool_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/draft-merge/internal/tool"
)

func TestCheckPrerequisites(t *testing.T) {
	cases := []struct {
		name     string
		cells    map[string]string
		expected tool.CheckPrerequisitesResponse
	}{
		{
			name:     "ready",
			cells:    readySubmission,
			expected: tool.CheckPrerequisitesResponse{Ready: true},
		},
		{
			name: "location missing",
			cells: map[string]string{
				"Submission!C1": "Select Value",
				"Submission!E3": "delivery",
			},
			expected: tool.CheckPrerequisitesResponse{Message: "Please select delivery location in cell C1."},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var writes []string
			session := newSession(t, submissionCells(tc.cells, &writes), &mergeRunnerMock{}, &projectSyncerMock{})

			text, isErr := callTool(t, session, "check_prerequisites", map[string]any{})
			require.False(t, isErr, text)
			assert.Equal(t, tc.expected, decode[tool.CheckPrerequisitesResponse](t, text))
			assert.Empty(t, writes)
		})
	}
}

func TestCheckPrerequisitesReadError(t *testing.T) {
	cells := &cellStoreMock{
		ReadCellFunc: func(context.Context, string, string) (string, error) {
			return "", errors.New("sheet not shared")
		},
	}
	session := newSession(t, cells, &mergeRunnerMock{}, &projectSyncerMock{})

	text, isErr := callTool(t, session, "check_prerequisites", map[string]any{})
	require.True(t, isErr)
	assert.Contains(t, text, "sheet not shared")
}
