// Package mcp exposes the workout data and import pipeline as MCP tools so
// assistants can preview CSV exports, log workouts, and browse history.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/ironlog/internal/models"
)

// New creates an MCP server with all tools and resources registered. All
// operations run on behalf of the session's user.
func New(ds DataSource, session models.Session, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("IronLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("IronLog workout tracker. Preview and import Strong CSV exports, log workouts, search the exercise library, and read workout history. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, session: session, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolPreviewStrongCSV, Handler: h.previewStrongCSV},
		server.ServerTool{Tool: toolImportStrongCSV, Handler: h.importStrongCSV},
		server.ServerTool{Tool: toolLogWorkout, Handler: h.logWorkout},
		server.ServerTool{Tool: toolSearchExercises, Handler: h.searchExercises},
		server.ServerTool{Tool: toolGetWorkoutHistory, Handler: h.getWorkoutHistory},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds      DataSource
	session models.Session
	log     *slog.Logger
}

var resRecentWorkouts = mcp.NewResource(
	"ironlog://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The user's workout history, most recent first, with exercises and sets"),
	mcp.WithMIMEType("application/json"),
)
