package tool_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/draft-merge/internal/merge"
	"github.com/hal9000y/draft-merge/internal/tool"
)

// newSession connects an in-memory client to a server built from the mocks.
func newSession(t *testing.T, cells *cellStoreMock, runner *mergeRunnerMock, syncer *projectSyncerMock) *mcp.ClientSession {
	t.Helper()

	server := tool.NewServer(merge.DefaultConfig(), cells, runner, syncer)
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ctx := context.Background()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientSession.Close() })

	return clientSession
}

// callTool calls name and returns the text of the first content item.
func callTool(t *testing.T, session *mcp.ClientSession, name string, args any) (string, bool) {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	return result.Content[0].(*mcp.TextContent).Text, result.IsError
}

func decode[T any](t *testing.T, text string) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal([]byte(text), &v))
	return v
}

// submissionCells answers the Submission prerequisite cells from values.
func submissionCells(values map[string]string, writes *[]string) *cellStoreMock {
	return &cellStoreMock{
		ReadCellFunc: func(_ context.Context, sheet, cell string) (string, error) {
			return values[sheet+"!"+cell], nil
		},
		WriteCellFunc: func(_ context.Context, sheet, cell, value string) error {
			*writes = append(*writes, sheet+"!"+cell+"="+value)
			return nil
		},
	}
}
