// main.go - Entry point for the Graph MCP Server.
//
// This file sets up the Model Context Protocol (MCP) server that exposes
// Microsoft Graph operations as tools, authenticated per request with the
// OAuth 2.0 On-Behalf-Of flow. Each tool call carries the MCP client's
// bearer token; the server exchanges it for a downstream Graph token scoped
// to exactly what the tool needs, then calls Graph as that user.
//
// Key Features:
// - Per-request On-Behalf-Of token exchange against Microsoft Entra ID
// - Single-flight token cache so concurrent calls share one exchange
// - Scope policy enforcement on both requested and granted scopes
// - Sovereign cloud support (public, usgov, usgovdod, china)
// - Comprehensive error classification and structured logging
//
// Available MCP Tools:
// - get_user_info: Identity claims from the caller's token, no Graph call
// - greet_user: Personalized greeting from the user's Graph profile
// - display_access_token: Exchanged Graph token details for debugging
// - list_email_messages: Newest mailbox messages, summaries only
// - get_email_message: One full message by ID
// - send_email_message: Declared but not implemented
//
// Request Flow:
// 1. HTTP middleware validates the bearer token and attaches it to context
// 2. The tool handler requests an OBO exchange for the scopes it needs
// 3. A Graph client bound to the exchanged token performs the call
// 4. Failures map to a stable error taxonomy the MCP client can act on
//
// Configuration:
// - Required: AZURE_CLIENT_ID, AZURE_CLIENT_SECRET, AZURE_TENANT_ID
// - Optional: AZURE_GRAPH_USER_SCOPES, AZURE_IDENTIFIER_URI, AZURE_CLOUD,
//   GRAPH_TOOLSETS, GRAPH_MCP_CONFIG, LOG_LEVEL, MCP_LOG_FILE
//
// Usage:
//   go build -o graph-mcp-server ./cmd/graph-mcp-server
//   ./graph-mcp-server -mode=streamable             # Streamable HTTP on port 8080
//   ./graph-mcp-server -mode=streamable -port=8081  # custom port
//   ./graph-mcp-server                              # stdio mode (no inbound bearer tokens)

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bcperry/graph-mcp/internal/auth"
	"github.com/bcperry/graph-mcp/internal/config"
	"github.com/bcperry/graph-mcp/internal/graph"
	"github.com/bcperry/graph-mcp/internal/logging"
)

// Version is the current version of the Graph MCP server
const Version = "1.0.0"

func main() {
	// Initialize structured logging first
	logging.Initialize()
	logger := logging.MainLogger

	// Parse command line flags
	mode := flag.String("mode", "stdio", "Server mode: stdio or streamable")
	port := flag.String("port", "8080", "Port for HTTP server (used with streamable mode)")
	flag.Parse()

	logger.Info("Graph MCP Server starting", "version", Version, "mode", *mode, "port", *port)

	// Load configuration; missing identity settings are fatal before any
	// request is accepted.
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration is incomplete", "error", err)
		os.Exit(1)
	}

	// Reinitialize logging with configuration values
	logging.InitializeFromConfig(cfg)
	logger = logging.MainLogger
	logger.Debug("Logging reconfigured based on loaded configuration")

	// Resolve the cloud environment. Unknown names are fatal: sending
	// tokens to a default cloud when a sovereign one was intended is worse
	// than refusing to start.
	env, err := graph.EnvironmentFromName(cfg.Cloud)
	if err != nil {
		logger.Error("Unknown cloud environment", "cloud", cfg.Cloud, "error", err)
		os.Exit(1)
	}
	logger.Info("Cloud environment resolved",
		"cloud", env.Name,
		"authority_host", env.AuthorityHost,
		"graph_host", env.GraphHost)

	// Build the On-Behalf-Of exchanger and wrap it with the single-flight
	// token cache.
	oboExchanger, err := auth.NewOBOExchanger(auth.Credentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TenantID:     cfg.TenantID,
	}, env.AuthorityHost, cfg.AllowedScopes)
	if err != nil {
		logger.Error("Failed to create token exchanger", "error", err)
		os.Exit(1)
	}
	exchanger := auth.NewCachingExchanger(oboExchanger)

	// Create MCP server
	s := server.NewMCPServer("Graph MCP Server", Version,
		server.WithToolCapabilities(true))

	// Register MCP tools per enabled toolsets
	registerTools(s, &toolDeps{
		exchanger: exchanger,
		env:       env,
		cfg:       cfg,
	})

	switch *mode {
	case "streamable":
		logger.Info("Starting MCP server", "transport", "Streamable HTTP", "port", *port)
		streamableServer := server.NewStreamableHTTPServer(s,
			server.WithStateLess(true),
			server.WithHTTPContextFunc(auth.HTTPContextFunc))
		handler := applyBearerPolicy(streamableServer, cfg)
		logger.Info("Streamable HTTP server listening", "address", fmt.Sprintf("http://localhost:%s", *port))
		if err := http.ListenAndServe(":"+*port, handler); err != nil {
			logger.Error("Streamable HTTP server error", "error", err)
			os.Exit(1)
		}
	case "stdio":
		// Over stdio there is no Authorization header; tools that need a
		// Graph call will return authorization errors until a token-bearing
		// transport is used.
		logger.Info("Starting MCP server", "transport", "stdio")
		if err := server.ServeStdio(s); err != nil {
			logger.Error("Stdio server error", "error", err)
			os.Exit(1)
		}
	default:
		logger.Error("Invalid mode specified", "mode", *mode, "valid_modes", []string{"stdio", "streamable"})
		os.Exit(1)
	}
}

// applyBearerPolicy wraps the HTTP transport with bearer token validation.
// The accepted audiences are the app's Application ID URI and its client ID,
// the two forms Entra uses for tokens issued to this API.
func applyBearerPolicy(handler http.Handler, cfg *config.Config) http.Handler {
	logger := logging.MainLogger

	policy := auth.BearerPolicy{
		Audiences: []string{cfg.IdentifierURI, cfg.ClientID},
	}
	logger.Info("Bearer token validation enabled for HTTP transport",
		"audiences", policy.Audiences)
	return auth.BearerTokenMiddleware(policy)(handler)
}
