package internal

// Agent is the table row for an agent or legacy assistant
type Agent struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Model     string `json:"model" yaml:"model"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
}

// Record exposes the row as a generic record for the table presenter
func (a Agent) Record() map[string]any {
	return map[string]any{
		"id":         a.ID,
		"name":       a.Name,
		"model":      a.Model,
		"created_at": a.CreatedAt,
	}
}

// NormalizeAgent maps a raw agent record with the modern field tables
func NormalizeAgent(raw any) Agent {
	return ModernAgents.NormalizeAgent(raw)
}

// NormalizeAgent maps a raw record into an Agent. Missing or wrong-typed
// fields become empty strings.
func (s AgentSchema) NormalizeAgent(raw any) Agent {
	return Agent{
		ID:        scalarOrEmpty(lookup(raw, "id")),
		Name:      scalarOrEmpty(lookup(raw, "name")),
		Model:     scalarOrEmpty(firstTruthy(raw, s.ModelPaths)),
		CreatedAt: EpochToISO(firstTruthy(raw, s.CreatedPaths)),
	}
}

// NormalizeAgents extracts and normalizes every agent in an envelope
func (s AgentSchema) NormalizeAgents(envelope any) []Agent {
	rows := ExtractList(envelope, s.CollectionKeys...)
	agents := make([]Agent, 0, len(rows))
	for _, row := range rows {
		agents = append(agents, s.NormalizeAgent(row))
	}
	return agents
}

// scalarOrEmpty keeps strings and numbers, drops objects and null
func scalarOrEmpty(v any) string {
	switch v.(type) {
	case map[string]any, []any, nil:
		return ""
	}
	return ScalarString(v)
}
