package internal

import "net/url"

// AgentsAPIVersion is the api-version the modern agents, conversations and
// responses endpoints are queried with.
const AgentsAPIVersion = "2025-11-15-preview"

// DefaultAPIVersion is sent when neither the caller nor the resource asks
// for a specific version.
const DefaultAPIVersion = "v1"

// AgentSchema describes one API generation of the agent resource. Both
// generations share one normalizer; only the tables differ.
type AgentSchema struct {
	Name           string
	CollectionPath string
	CollectionKeys []string
	// APIVersion is the resource default; empty defers to the client default
	APIVersion   string
	ModelPaths   [][]string
	CreatedPaths [][]string
}

var (
	// ModernAgents is the v2 agents API with versioned definitions
	ModernAgents = AgentSchema{
		Name:           "modern",
		CollectionPath: "agents",
		CollectionKeys: []string{"agents", "assistants", "data", "items"},
		APIVersion:     AgentsAPIVersion,
		ModelPaths: [][]string{
			{"versions", "latest", "definition", "model"},
			{"versions", "latest", "definition", "deployment"},
			{"model"},
		},
		CreatedPaths: [][]string{
			{"versions", "latest", "created_at"},
			{"created_at"},
			{"createdAt"},
		},
	}

	// LegacyAgents is the v1 assistants API
	LegacyAgents = AgentSchema{
		Name:           "legacy",
		CollectionPath: "assistants",
		CollectionKeys: []string{"assistants", "data", "items"},
		ModelPaths: [][]string{
			{"model"},
		},
		CreatedPaths: [][]string{
			{"created_at"},
			{"createdAt"},
		},
	}
)

// AgentSchemaFor selects the schema for the legacy flag
func AgentSchemaFor(legacy bool) AgentSchema {
	if legacy {
		return LegacyAgents
	}
	return ModernAgents
}

// ItemPath returns the resource path for a single agent
func (s AgentSchema) ItemPath(id string) string {
	return s.CollectionPath + "/" + url.PathEscape(id)
}
