// config.go - Startup configuration for the Graph MCP server.
//
// Configuration is read once at startup from environment variables, with an
// optional JSON config file (GRAPH_MCP_CONFIG) layered on top. The resulting
// Config is treated as immutable and passed by pointer into every component
// that needs it.
//
// Required identity settings (AZURE_CLIENT_ID, AZURE_CLIENT_SECRET,
// AZURE_TENANT_ID) are checked by Validate; the server refuses to start
// without them rather than serving tools that cannot complete an
// On-Behalf-Of exchange.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bcperry/graph-mcp/internal/logging"
)

// DefaultScopes are the delegated Graph scopes allowed for On-Behalf-Of
// exchanges when AZURE_GRAPH_USER_SCOPES is not set. They cover every
// implemented tool and nothing more.
const DefaultScopes = "User.Read Mail.Read"

// Config holds all server configuration. Constructed once by Load and never
// mutated afterwards.
type Config struct {
	ClientID      string   `json:"client_id"`
	ClientSecret  string   `json:"client_secret"`
	TenantID      string   `json:"tenant_id"`
	AllowedScopes []string `json:"allowed_scopes"` // delegated scopes the app may request downstream
	IdentifierURI string   `json:"identifier_uri"` // Application ID URI for inbound audience checks
	Cloud         string   `json:"cloud"`          // cloud environment name, resolved by graph.EnvironmentFromName
	Toolsets      []string `json:"toolsets"`

	LogLevel        string `json:"log_level"`
	LogFormat       string `json:"log_format"`
	LogFile         string `json:"log_file"`
	ContentLogLevel string `json:"content_log_level"`
}

// Load builds a Config from environment variables and the optional JSON
// config file referenced by GRAPH_MCP_CONFIG. File values override the
// environment, matching how the server has always been deployed.
func Load() (*Config, error) {
	logging.ConfigLogger.Debug("Loading configuration from environment")

	cfg := &Config{
		ClientID:        os.Getenv("AZURE_CLIENT_ID"),
		ClientSecret:    os.Getenv("AZURE_CLIENT_SECRET"),
		TenantID:        os.Getenv("AZURE_TENANT_ID"),
		IdentifierURI:   os.Getenv("AZURE_IDENTIFIER_URI"),
		Cloud:           os.Getenv("AZURE_CLOUD"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		LogFormat:       os.Getenv("LOG_FORMAT"),
		LogFile:         os.Getenv("MCP_LOG_FILE"),
		ContentLogLevel: os.Getenv("CONTENT_LOG_LEVEL"),
	}

	if scopes := os.Getenv("AZURE_GRAPH_USER_SCOPES"); scopes != "" {
		cfg.AllowedScopes = strings.Fields(scopes)
	}
	if toolsets := os.Getenv("GRAPH_TOOLSETS"); toolsets != "" {
		cfg.Toolsets = strings.Split(toolsets, ",")
	}

	if path := os.Getenv("GRAPH_MCP_CONFIG"); path != "" {
		logging.ConfigLogger.Debug("Loading config file", "path", path)
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
		}
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyDefaults()

	logging.ConfigLogger.Info("Configuration loaded",
		"client_id", maskValue(cfg.ClientID),
		"tenant_id", cfg.TenantID,
		"cloud", cfg.Cloud,
		"allowed_scopes", cfg.AllowedScopes,
		"identifier_uri", cfg.IdentifierURI,
		"secret_configured", cfg.ClientSecret != "")

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.AllowedScopes) == 0 {
		c.AllowedScopes = strings.Fields(DefaultScopes)
	}
	if c.IdentifierURI == "" && c.ClientID != "" {
		c.IdentifierURI = "api://" + c.ClientID
	}
	if c.Cloud == "" {
		c.Cloud = "public"
	}
}

// Validate reports the first missing required value. A failure here is a
// startup-time configuration error: the process must exit non-zero instead
// of serving tools with partial Graph capability.
func (c *Config) Validate() error {
	switch {
	case c.ClientID == "":
		return fmt.Errorf("AZURE_CLIENT_ID is required")
	case c.ClientSecret == "":
		return fmt.Errorf("AZURE_CLIENT_SECRET is required")
	case c.TenantID == "":
		return fmt.Errorf("AZURE_TENANT_ID is required")
	}
	return nil
}

// maskValue masks identifiers for logging.
func maskValue(value string) string {
	if value == "" {
		return "<empty>"
	}
	if len(value) <= 8 {
		return "***"
	}
	return value[:4] + "***" + value[len(value)-4:]
}

// Accessors implementing logging.LoggingConfig.

func (c *Config) GetLogLevel() string        { return c.LogLevel }
func (c *Config) GetLogFormat() string       { return c.LogFormat }
func (c *Config) GetLogFile() string         { return c.LogFile }
func (c *Config) GetContentLogLevel() string { return c.ContentLogLevel }
