package internal

import (
	"strconv"
	"strings"
)

// OutputMode selects how command results are written
type OutputMode string

const (
	ModeTable OutputMode = "table"
	ModeJSON  OutputMode = "json"
	ModeRaw   OutputMode = "raw"
	ModeYAML  OutputMode = "yaml"
)

// ParseOutputMode accepts the mode names allowed in the config file's
// output key. An empty name means table.
func ParseOutputMode(name string) (OutputMode, error) {
	switch m := OutputMode(strings.ToLower(strings.TrimSpace(name))); m {
	case "":
		return ModeTable, nil
	case ModeTable, ModeJSON, ModeRaw, ModeYAML:
		return m, nil
	default:
		return "", NewUsageError("unknown output mode %q (want table, json, raw or yaml)", name)
	}
}

// Default pagination applied to a conversation's item listing
const (
	DefaultItemsLimit = 100
	DefaultItemsOrder = "asc"
)

// Pagination holds the list controls forwarded to the upstream API. Zero
// values are omitted from the query.
type Pagination struct {
	Limit  int
	Order  string
	After  string
	Before string
}

// RequestConfig is everything one invocation needs to talk to the upstream
// service. It is built once by the command surface and not modified after.
type RequestConfig struct {
	Endpoint           string
	APIVersionOverride string
	Pagination         Pagination
	OutputMode         OutputMode
	Legacy             bool
	Transcript         TranscriptOptions
	Debug              bool
}

// Validate reports caller mistakes as usage errors
func (c RequestConfig) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return NewUsageError("missing project endpoint: provide --project or AZA_PROJECT")
	}
	return c.Pagination.Validate()
}

// Validate checks the pagination controls
func (p Pagination) Validate() error {
	if p.Limit < 0 {
		return NewUsageError("--limit must be a non-negative integer, got %d", p.Limit)
	}
	switch p.Order {
	case "", "asc", "desc":
	default:
		return NewUsageError("--order must be asc or desc, got %q", p.Order)
	}
	return nil
}

// APIVersionFor picks the api-version for a resource: an explicit override
// wins, then the resource default. Empty means the client default.
func (c RequestConfig) APIVersionFor(resourceDefault string) string {
	if c.APIVersionOverride != "" {
		return c.APIVersionOverride
	}
	return resourceDefault
}

// ListQuery builds the query for a list endpoint
func (c RequestConfig) ListQuery(resourceAPIVersion string) map[string]string {
	query := make(map[string]string)
	if v := c.APIVersionFor(resourceAPIVersion); v != "" {
		query["api-version"] = v
	}
	p := c.Pagination
	if p.Limit > 0 {
		query["limit"] = strconv.Itoa(p.Limit)
	}
	if p.Order != "" {
		query["order"] = p.Order
	}
	if p.After != "" {
		query["after"] = p.After
	}
	if p.Before != "" {
		query["before"] = p.Before
	}
	return query
}

// ItemsQuery is the list query for a conversation's items with the item
// defaults filled in and the run filter forwarded.
func (c RequestConfig) ItemsQuery() map[string]string {
	query := c.ListQuery(AgentsAPIVersion)
	if _, ok := query["limit"]; !ok {
		query["limit"] = strconv.Itoa(DefaultItemsLimit)
	}
	if _, ok := query["order"]; !ok {
		query["order"] = DefaultItemsOrder
	}
	if c.Transcript.RunID != "" {
		query["run_id"] = c.Transcript.RunID
	}
	return query
}

// ItemQuery is the query for a single resource
func (c RequestConfig) ItemQuery(resourceAPIVersion string) map[string]string {
	query := make(map[string]string)
	if v := c.APIVersionFor(resourceAPIVersion); v != "" {
		query["api-version"] = v
	}
	return query
}
