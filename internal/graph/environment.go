// environment.go - Microsoft cloud environment registry.
//
// Sovereign clouds use different Graph base URLs and token authorities.
// A wrong-cloud call either fails silently or leaks a token to the wrong
// endpoint, so an unrecognized environment name is a hard configuration
// error — never a fallback to the public cloud.

package graph

import (
	"fmt"
	"strings"

	"github.com/bcperry/graph-mcp/internal/auth"
)

// Environment describes one Microsoft cloud deployment.
type Environment struct {
	Name          string
	AuthorityHost string // identity provider base, e.g. "https://login.microsoftonline.com"
	GraphHost     string // Graph API base, e.g. "https://graph.microsoft.com"
}

var environments = map[string]Environment{
	"public": {
		Name:          "public",
		AuthorityHost: "https://login.microsoftonline.com",
		GraphHost:     "https://graph.microsoft.com",
	},
	"usgov": {
		Name:          "usgov",
		AuthorityHost: "https://login.microsoftonline.us",
		GraphHost:     "https://graph.microsoft.us",
	},
	"usgovdod": {
		Name:          "usgovdod",
		AuthorityHost: "https://login.microsoftonline.us",
		GraphHost:     "https://dod-graph.microsoft.us",
	},
	"china": {
		Name:          "china",
		AuthorityHost: "https://login.chinacloudapi.cn",
		GraphHost:     "https://microsoftgraph.chinacloudapi.cn",
	},
}

// EnvironmentFromName resolves a configured cloud name. The empty string
// means the public cloud; anything unrecognized is a ConfigurationError.
func EnvironmentFromName(name string) (Environment, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = "public"
	}
	env, ok := environments[key]
	if !ok {
		return Environment{}, &auth.ConfigurationError{
			Reason: fmt.Sprintf("unrecognized cloud environment %q (valid: public, usgov, usgovdod, china)", name),
		}
	}
	return env, nil
}

// GraphResource returns the resource identifier used to qualify OBO scopes
// and validate exchanged tokens.
func (e Environment) GraphResource() string {
	return e.GraphHost
}

// GraphBaseURL returns the versioned Graph endpoint for the SDK adapter.
func (e Environment) GraphBaseURL() string {
	return e.GraphHost + "/v1.0"
}
