// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the daily-folder commands as tools via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/dailyfolder/internal/apperr"
	"github.com/starford/dailyfolder/internal/dailyservice"
)

const formatGuideURI = "dailyfolder://format-guide"

// Server wraps the MCP server with the daily-folder tools.
type Server struct {
	mcp *server.MCPServer
	svc *dailyservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *dailyservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Daily Folder",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("open_today",
		mcp.WithDescription("Open today's daily folder note, creating the folder and note from the template when it does not exist yet. "+
			"Returns the note path and whether it was created."),
		mcp.WithString("description", mcp.Description("Optional description appended to a new folder's name")),
	), s.openToday)

	s.mcp.AddTool(mcp.NewTool("next_daily",
		mcp.WithDescription("Find the daily folder note closest after the given one."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative path of the current daily note")),
	), s.nextDaily)

	s.mcp.AddTool(mcp.NewTool("previous_daily",
		mcp.WithDescription("Find the daily folder note closest before the given one."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative path of the current daily note")),
	), s.previousDaily)

	s.mcp.AddTool(mcp.NewTool("rename_daily",
		mcp.WithDescription("Rename a daily folder and its note to the date plus a new description. "+
			"An empty description removes the current one."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative path of the daily note")),
		mcp.WithString("description", mcp.Description("New description")),
	), s.renameDaily)

	s.mcp.AddTool(mcp.NewTool("preview_daily_path",
		mcp.WithDescription("Show the folder path a new daily folder would get for a description."),
		mcp.WithString("description", mcp.Description("Description typed so far")),
	), s.previewDailyPath)

	s.mcp.AddTool(mcp.NewTool("get_settings",
		mcp.WithDescription("Return the daily-folder settings: date pattern, root folder, template and whether descriptions are used."),
	), s.getSettings)

	s.mcp.AddTool(mcp.NewTool("get_format_guide",
		mcp.WithDescription("Returns the daily folder naming rules and date pattern tokens. "+
			"Call this before choosing a description or reading folder names."),
	), s.getFormatGuide)

	s.mcp.AddResource(
		mcp.NewResource(formatGuideURI, "Daily Folder Format Guide",
			mcp.WithResourceDescription("Naming rules for daily folders and the supported date pattern tokens."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) openToday(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.OpenToday(ctx, req.GetString("description", ""))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(res)
}

func (s *Server) nextDaily(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.nearest(ctx, req, true)
}

func (s *Server) previousDaily(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.nearest(ctx, req, false)
}

func (s *Server) nearest(ctx context.Context, req mcp.CallToolRequest, forward bool) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.Nearest(ctx, path, forward)
	if errors.Is(err, apperr.ErrNotFound) {
		if forward {
			return mcp.NewToolResultText("No newer daily folder files."), nil
		}
		return mcp.NewToolResultText("No older daily folder files."), nil
	}
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(d.File.Path), nil
}

func (s *Server) renameDaily(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Rename(ctx, path, req.GetString("description", ""))
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("renamed: %s", res.Path)), nil
}

func (s *Server) previewDailyPath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.svc.Preview(ctx, req.GetString("description", ""))), nil
}

func (s *Server) getSettings(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Settings(ctx))
}

func (s *Server) getFormatGuide(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FormatGuide), nil
}

func (s *Server) readFormatGuideResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatGuideURI,
			MIMEType: "text/markdown",
			Text:     FormatGuide,
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}

// toolError turns a service error into a message the model can act on.
func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrNotDailyFile):
		return mcp.NewToolResultError(fmt.Sprintf("not a daily folder note: %v", err))
	case errors.Is(err, apperr.ErrTemplateMissing):
		return mcp.NewToolResultError(fmt.Sprintf("template not found: %v", err))
	case errors.Is(err, apperr.ErrAlreadyExists):
		return mcp.NewToolResultError(fmt.Sprintf("target already exists: %v", err))
	}
	return mcp.NewToolResultError(err.Error())
}
