package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
)

// RegisterResources registers MCP resources that expose habit data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App
	if app == nil {
		return fmt.Errorf("app is required")
	}

	srv.Resource("cadence://habits/today").
		Name("Habits today").
		Description("Habits split into due and not due for today").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app.ListHabitsHandler == nil {
				return nil, errNoDatabase
			}
			result, err := app.ListHabitsHandler.Handle(ctx, queries.ListHabitsQuery{UserID: app.CurrentUserID})
			if err != nil {
				return nil, err
			}
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return nil, err
			}
			return &mcp.ResourceContent{URI: uri, MimeType: "application/json", Text: string(data)}, nil
		})

	srv.Resource("cadence://habits/export").
		Name("Habit export").
		Description("Every habit with its full completion history").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app.ExportHabitsHandler == nil {
				return nil, errNoDatabase
			}
			data, err := app.ExportHabitsHandler.Handle(ctx, queries.ExportHabitsQuery{UserID: app.CurrentUserID})
			if err != nil {
				return nil, err
			}
			return &mcp.ResourceContent{URI: uri, MimeType: "application/json", Text: string(data)}, nil
		})

	return nil
}
