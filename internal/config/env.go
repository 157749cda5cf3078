package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR_NAME} patterns in TOML values
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// DetectEnvVar checks if a raw TOML value is a simple ${VAR_NAME} reference.
// Returns the variable name and true if the value is a pure env var reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(strings.TrimSpace(rawValue))
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// GenerateEnvVarName generates a conventional env var name for a network's RPC URL.
// Convention: uppercase, dashes/dots to underscores, append _RPC_URL.
// Examples: polygon -> POLYGON_RPC_URL, base-sepolia -> BASE_SEPOLIA_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

// expandRPCURL expands a raw rpc_url value and reports the variable it came from.
// An empty value falls back to the conventional <NETWORK>_RPC_URL variable.
func expandRPCURL(networkName, raw string) (string, string) {
	if raw == "" {
		envVar := GenerateEnvVarName(networkName)
		if v, ok := os.LookupEnv(envVar); ok {
			return v, envVar
		}
		return "", ""
	}
	if envVar, ok := DetectEnvVar(raw); ok {
		return os.Getenv(envVar), envVar
	}
	return os.ExpandEnv(raw), ""
}
