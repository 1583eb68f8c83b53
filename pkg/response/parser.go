package response

import (
	"regexp"
	"strings"

	"hdt-be/pkg/prompt"
)

// DefaultLanguage is used for fences without a language tag.
const DefaultLanguage = "plaintext"

// fencePattern matches "```lang\n body ```". The tag is optional and the
// body is non-greedy so consecutive blocks stay separate. An unterminated
// fence never matches.
var fencePattern = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)```")

type CodeBlock struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// ParsedResult is the structured form of a model reply.
type ParsedResult struct {
	Kind        prompt.TaskKind `json:"type"`
	RawText     string          `json:"content"`
	CodeBlocks  []CodeBlock     `json:"code_blocks"`
	Explanation string          `json:"explanation"`
}

// Parse splits rawText into fenced code blocks and the remaining prose.
func Parse(rawText string, kind prompt.TaskKind) ParsedResult {
	result := ParsedResult{
		Kind:       kind,
		RawText:    rawText,
		CodeBlocks: []CodeBlock{},
	}

	for _, m := range fencePattern.FindAllStringSubmatch(rawText, -1) {
		lang := m[1]
		if lang == "" {
			lang = DefaultLanguage
		}
		result.CodeBlocks = append(result.CodeBlocks, CodeBlock{
			Language: lang,
			Code:     strings.TrimSpace(m[2]),
		})
	}

	result.Explanation = strings.TrimSpace(fencePattern.ReplaceAllLiteralString(rawText, ""))
	return result
}

// ApproxTokens is the whitespace-separated word count of a reply.
func ApproxTokens(rawText string) int {
	return len(strings.Fields(rawText))
}
