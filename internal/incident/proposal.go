package incident

// Proposal is the structured object recovered from a model response.
// It is deliberately schemaless: consumers use the accessor methods and
// field-existence checks rather than type assertions, because the model
// may omit, rename, or mistype any field.
//
// A Proposal is always present. When no valid structure can be recovered
// from a response, NewSentinel produces a degraded Proposal carrying the
// raw text and an explicit error marker, so downstream code never branches
// on parse failure.
type Proposal map[string]any

// Expected proposal fields, as requested from the model.
const (
	FieldID          = "id"
	FieldType        = "type"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldServices    = "services"
	FieldTeams       = "teams"
	FieldRunbooks    = "runbooks"
)

// Sentinel fields present only on parse failure.
const (
	FieldText        = "text"
	FieldRawResponse = "raw_response"
	FieldError       = "error"
)

// NewSentinel constructs the degraded Proposal for an unparsable response.
// reason names the stage that failed, e.g. "no JSON found in LLM response".
func NewSentinel(raw, reason string) Proposal {
	return Proposal{
		FieldText:        raw,
		FieldRawResponse: raw,
		FieldError:       reason,
	}
}

// IsSentinel reports whether this proposal is a parse-failure sentinel.
func (p Proposal) IsSentinel() bool {
	_, ok := p[FieldError]
	return ok
}

// StringField returns the named field as a string, or fallback when the field
// is missing or not a string.
func (p Proposal) StringField(key, fallback string) string {
	if s, ok := p[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// StringList returns the named field as a list of strings. Missing fields and
// non-list values yield an empty list, never an error. Non-string elements are
// skipped.
func (p Proposal) StringList(key string) []string {
	switch items := p[key].(type) {
	case []string:
		out := make([]string, len(items))
		copy(out, items)
		return out
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}
