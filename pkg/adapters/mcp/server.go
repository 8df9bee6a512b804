// Package mcp exposes the titration bench as a Model Context Protocol
// server, so chat assistants can drive experiments as tools and read
// the reagent shelf as a resource.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/burette/internal/logging"
	"github.com/aretw0/burette/pkg/chem"
	"github.com/aretw0/burette/pkg/domain"
	"github.com/aretw0/burette/pkg/ports"
)

// RunResponse is the structured output every run-mutating tool returns.
type RunResponse struct {
	Run *domain.Run `json:"run" jsonschema_description:"Snapshot of the run after the operation"`
}

// CurveResponse carries the recorded curve of one run.
type CurveResponse struct {
	RunID   string          `json:"run_id"`
	Samples []domain.Sample `json:"samples" jsonschema_description:"Recorded (volume, pH) points in order"`
}

// EquivalenceResponse carries the theoretical equivalence point.
type EquivalenceResponse struct {
	Volume float64 `json:"volume" jsonschema_description:"Equivalence volume in mL"`
	PH     float64 `json:"ph" jsonschema_description:"pH the calculator reports at equivalence"`
}

// ReagentsResponse lists the shelf contents.
type ReagentsResponse struct {
	Reagents []domain.Reagent `json:"reagents"`
}

// Server wraps a bench and an optional reagent catalog as an MCP server.
type Server struct {
	bench     ports.Workbench
	catalog   ports.Catalog
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithCatalog exposes a reagent catalog through the list_reagents tool
// and the burette://reagents resource.
func WithCatalog(catalog ports.Catalog) ServerOption {
	return func(s *Server) {
		s.catalog = catalog
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates an MCP server over the bench.
func NewServer(bench ports.Workbench, version string, opts ...ServerOption) *Server {
	s := &Server{
		bench:     bench,
		mcpServer: server.NewMCPServer("burette-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server over HTTP on the given port and shuts it
// down gracefully when ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("mcp server listening (sse)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

// startArgs mirrors the start_titration tool input; mapstructure decodes
// the raw argument map into it.
type startArgs struct {
	ID     string `mapstructure:"id"`
	Config struct {
		Analyte struct {
			Kind                 string  `mapstructure:"kind"`
			Strength             string  `mapstructure:"strength"`
			Concentration        float64 `mapstructure:"concentration"`
			Volume               float64 `mapstructure:"volume"`
			DissociationConstant float64 `mapstructure:"dissociation_constant"`
		} `mapstructure:"analyte"`
		Titrant struct {
			Kind                 string  `mapstructure:"kind"`
			Strength             string  `mapstructure:"strength"`
			Concentration        float64 `mapstructure:"concentration"`
			Volume               float64 `mapstructure:"volume"`
			DissociationConstant float64 `mapstructure:"dissociation_constant"`
			DeliveryRate         float64 `mapstructure:"delivery_rate"`
		} `mapstructure:"titrant"`
		MaxVolume float64 `mapstructure:"max_volume"`
	} `mapstructure:"config"`
}

func (a startArgs) domainConfig() domain.Config {
	return domain.Config{
		Analyte: domain.Solute{
			Kind:                 domain.Kind(a.Config.Analyte.Kind),
			Strength:             domain.Strength(a.Config.Analyte.Strength),
			Concentration:        a.Config.Analyte.Concentration,
			Volume:               a.Config.Analyte.Volume,
			DissociationConstant: a.Config.Analyte.DissociationConstant,
		},
		Titrant: domain.Titrant{
			Solute: domain.Solute{
				Kind:                 domain.Kind(a.Config.Titrant.Kind),
				Strength:             domain.Strength(a.Config.Titrant.Strength),
				Concentration:        a.Config.Titrant.Concentration,
				Volume:               a.Config.Titrant.Volume,
				DissociationConstant: a.Config.Titrant.DissociationConstant,
			},
			DeliveryRate: a.Config.Titrant.DeliveryRate,
		},
		MaxVolume: a.Config.MaxVolume,
	}
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_titration",
		mcp.WithDescription("Create and start a titration run from an experiment config. Concentrations are mol/L, volumes mL; weak species require dissociation_constant."),
		mcp.WithString("id", mcp.Description("Run identifier (optional, generated when empty)")),
		mcp.WithObject("config", mcp.Required(), mcp.Description("Experiment config: {analyte:{kind,strength,concentration,volume[,dissociation_constant]}, titrant:{...,delivery_rate}[, max_volume]}")),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	tickTool := mcp.NewTool("titrate",
		mcp.WithDescription("Advance a running titration by delta simulated time units, delivering titrant at the configured rate."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run identifier")),
		mcp.WithNumber("delta", mcp.Required(), mcp.Description("Simulated time units to advance (must be positive)")),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(tickTool, mcp.NewStructuredToolHandler(s.handleTick))

	controls := []struct {
		name string
		desc string
		fn   func(context.Context, string) (*domain.Run, error)
	}{
		{"pause_titration", "Pause a running titration.", s.bench.Pause},
		{"resume_titration", "Resume a paused titration.", s.bench.Resume},
		{"toggle_stir", "Toggle the magnetic stirrer of an active run.", s.bench.ToggleStir},
		{"reset_titration", "Reset a run to idle, discarding the recorded curve.", s.bench.Reset},
		{"read_run", "Read the current snapshot of a run without mutating it.", s.bench.Get},
	}
	for _, c := range controls {
		c := c
		tool := mcp.NewTool(c.name,
			mcp.WithDescription(c.desc),
			mcp.WithString("run_id", mcp.Required(), mcp.Description("Run identifier")),
			mcp.WithOutputSchema[RunResponse](),
		)
		s.mcpServer.AddTool(tool, mcp.NewStructuredToolHandler(
			func(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RunResponse, error) {
				runID, _ := args["run_id"].(string)
				run, err := c.fn(ctx, runID)
				if err != nil {
					return RunResponse{}, fmt.Errorf("%s failed: %w", c.name, err)
				}
				return RunResponse{Run: run}, nil
			}))
	}

	curveTool := mcp.NewTool("read_curve",
		mcp.WithDescription("Read the recorded titration curve of a run."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run identifier")),
		mcp.WithOutputSchema[CurveResponse](),
	)
	s.mcpServer.AddTool(curveTool, mcp.NewStructuredToolHandler(s.handleCurve))

	eqTool := mcp.NewTool("equivalence_point",
		mcp.WithDescription("Compute the theoretical equivalence point (volume and pH) for a run's config."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run identifier")),
		mcp.WithOutputSchema[EquivalenceResponse](),
	)
	s.mcpServer.AddTool(eqTool, mcp.NewStructuredToolHandler(s.handleEquivalence))

	if s.catalog != nil {
		listTool := mcp.NewTool("list_reagents",
			mcp.WithDescription("List the reagents available on the shelf, with kind, strength and dissociation constants."),
			mcp.WithOutputSchema[ReagentsResponse](),
		)
		s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListReagents))
	}
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, rawArgs map[string]any) (RunResponse, error) {
	var args startArgs
	if err := mapstructure.Decode(rawArgs, &args); err != nil {
		return RunResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	run, err := s.bench.StartRun(ctx, args.ID, args.domainConfig())
	if err != nil {
		return RunResponse{}, fmt.Errorf("start failed: %w", err)
	}
	return RunResponse{Run: run}, nil
}

func (s *Server) handleTick(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RunResponse, error) {
	runID, _ := args["run_id"].(string)
	delta, _ := args["delta"].(float64)

	run, err := s.bench.Tick(ctx, runID, delta)
	if err != nil {
		return RunResponse{}, fmt.Errorf("tick failed: %w", err)
	}
	return RunResponse{Run: run}, nil
}

func (s *Server) handleCurve(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (CurveResponse, error) {
	runID, _ := args["run_id"].(string)

	samples, err := s.bench.Curve(ctx, runID)
	if err != nil {
		return CurveResponse{}, fmt.Errorf("curve failed: %w", err)
	}
	return CurveResponse{RunID: runID, Samples: samples}, nil
}

func (s *Server) handleEquivalence(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (EquivalenceResponse, error) {
	runID, _ := args["run_id"].(string)

	run, err := s.bench.Get(ctx, runID)
	if err != nil {
		return EquivalenceResponse{}, fmt.Errorf("equivalence failed: %w", err)
	}
	eq := chem.EquivalencePoint(run.Config)
	return EquivalenceResponse{Volume: eq.Volume, PH: eq.PH}, nil
}

func (s *Server) handleListReagents(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ReagentsResponse, error) {
	reagents, err := s.catalog.List(ctx)
	if err != nil {
		return ReagentsResponse{}, fmt.Errorf("list reagents failed: %w", err)
	}
	return ReagentsResponse{Reagents: reagents}, nil
}

func (s *Server) registerResources() {
	if s.catalog == nil {
		return
	}

	s.mcpServer.AddResource(mcp.NewResource("burette://reagents", "Reagent Shelf",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		reagents, err := s.catalog.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list shelf: %w", err)
		}
		jsonBytes, _ := json.Marshal(reagents)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "burette://reagents",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
