package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common habit workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("daily_checkin").
		Description("Walk through today's due habits and record what got done.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Daily habit check-in",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me check in on my habits for today.

1. Read the cadence://habits/today resource.
2. For each habit under "due", ask me whether I did it.
3. Record every yes with the habit.complete tool.
4. Finish with a short summary of what is still due.

Custom habits can only be completed on their scheduled weekdays. If
habit.complete reports that a habit is not scheduled today, tell me which
days it is scheduled on instead of retrying.`,
						},
					},
				},
			}, nil
		})

	return nil
}
