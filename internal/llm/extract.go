package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/incidentops/graphmind/internal/incident"
)

// codeBlockPattern matches markdown code blocks with optional language tag.
// Captures: (1) optional language, (2) content.
var codeBlockPattern = regexp.MustCompile(`(?s)` + "```" + `(\w*)\s*\n(.+?)\n` + "```")

// ExtractProposal recovers a structured incident proposal from raw model
// output. Strategies are applied in order, using the first that succeeds:
//
//  1. JSON object inside a ```json (or untagged) markdown code block,
//     since models most commonly fence their JSON.
//  2. The entire trimmed response parsed as JSON.
//  3. The first balanced brace-delimited object found in the text.
//  4. The best candidate run through JSON repair (trailing commas, single
//     quotes, unquoted keys) and re-parsed.
//  5. A sentinel proposal carrying the raw text and the failure reason.
//
// This function never fails: malformed input degrades to the sentinel, so
// callers can hand the result downstream unconditionally.
func ExtractProposal(raw string) incident.Proposal {
	// Strategy 1: fenced code block
	if content, found := extractFromCodeBlock(raw); found {
		if p, ok := parseObject(content); ok {
			return p
		}
	}

	// Strategy 2: whole response is JSON
	trimmed := strings.TrimSpace(raw)
	if p, ok := parseObject(trimmed); ok {
		return p
	}

	// Strategy 3: first balanced object embedded in prose
	candidate := extractBracedObject(raw)
	if candidate != "" {
		if p, ok := parseObject(candidate); ok {
			return p
		}

		// Strategy 4: repair the near-JSON candidate
		if repaired, err := jsonrepair.JSONRepair(candidate); err == nil {
			if p, ok := parseObject(repaired); ok {
				return p
			}
		}
		return incident.NewSentinel(raw, "Could not parse JSON from LLM response")
	}

	return incident.NewSentinel(raw, "No JSON found in LLM response")
}

// extractFromCodeBlock finds an object-shaped payload in markdown code blocks.
// Blocks explicitly tagged as other languages are skipped.
func extractFromCodeBlock(response string) (string, bool) {
	matches := codeBlockPattern.FindAllStringSubmatch(response, -1)

	for _, match := range matches {
		if len(match) < 3 {
			continue
		}

		lang := strings.ToLower(match[1])
		content := strings.TrimSpace(match[2])

		if lang != "" && lang != "json" {
			continue
		}

		if strings.HasPrefix(content, "{") {
			return content, true
		}
	}

	return "", false
}

// extractBracedObject returns the first balanced {...} span in the text,
// or "" when none exists. String literals and escapes are honored so braces
// inside values do not break the balance count.
func extractBracedObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}

	content := s[start:]
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(content); i++ {
		c := content[i]

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if c == '{' {
			depth++
		} else if c == '}' {
			depth--
			if depth == 0 {
				return content[:i+1]
			}
		}
	}

	// Unbalanced: return the open span so the repair strategy can try it.
	return content
}

// parseObject parses s into a proposal when s is a JSON object.
// Arrays and scalars are rejected: a proposal is always an object.
func parseObject(s string) (incident.Proposal, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return incident.Proposal(m), true
}
