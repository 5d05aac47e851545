package internal

// Collection keys tried, in order, when unwrapping list envelopes
var (
	ConversationKeys     = []string{"conversations", "data", "items"}
	ConversationItemKeys = []string{"data", "items"}
	ResponseKeys         = []string{"responses", "data", "items"}
)

// ExtractList turns a response envelope into a list of records. The first
// preferred key holding an array wins; a bare array is returned unchanged;
// any other non-null value becomes a single record.
func ExtractList(envelope any, preferredKeys ...string) []any {
	switch v := envelope.(type) {
	case nil:
		return []any{}
	case []any:
		return v
	case map[string]any:
		for _, key := range preferredKeys {
			if list, ok := v[key].([]any); ok {
				return list
			}
		}
	}
	return []any{envelope}
}
