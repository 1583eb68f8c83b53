package prompt

import (
	"fmt"
	"strings"
)

// TaskKind is the closed set of task templates.
type TaskKind string

const (
	KindCodeGeneration TaskKind = "code_generation"
	KindDebugging      TaskKind = "debugging"
	KindDocumentation  TaskKind = "documentation"
	KindGeneral        TaskKind = "general"
)

// ParseTaskKind maps a wire value to a kind. Empty and unrecognized values
// become KindGeneral.
func ParseTaskKind(s string) TaskKind {
	switch k := TaskKind(strings.TrimSpace(s)); k {
	case KindCodeGeneration, KindDebugging, KindDocumentation:
		return k
	default:
		return KindGeneral
	}
}

// TaskContext is the optional structured input attached to a task, e.g. the
// source under review.
type TaskContext map[string]interface{}

// Code returns the "code" entry as a string, or "" when absent.
func (c TaskContext) Code() string {
	if c == nil {
		return ""
	}
	switch v := c["code"].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Compositor builds task prompts. It holds no mutable state, so one value
// is shared by every session.
type Compositor struct {
	maxLines int
}

func NewCompositor(codeGenerationMaxLines int) *Compositor {
	if codeGenerationMaxLines <= 0 {
		codeGenerationMaxLines = 1000
	}
	return &Compositor{maxLines: codeGenerationMaxLines}
}

// Compose is deterministic for identical inputs.
func (c *Compositor) Compose(role Role, kind TaskKind, command string, taskCtx TaskContext) string {
	system := role.SystemInstruction()

	switch kind {
	case KindCodeGeneration:
		return fmt.Sprintf(`%s

Generate code for the following request:
%s

Requirements:
- Maximum %d lines
- Include comments explaining key parts
- Follow best practices
- Provide a brief explanation after the code

Format your response with code in markdown blocks:
`+"```language\ncode here\n```"+`

Then provide explanation.`, system, command, c.maxLines)

	case KindDebugging:
		return fmt.Sprintf(`%s

Debug the following code:
`+"```\n%s\n```"+`

Issue description: %s

Provide:
1. What's wrong
2. Corrected code
3. Explanation of the fix`, system, taskCtx.Code(), command)

	case KindDocumentation:
		return fmt.Sprintf(`%s

Generate documentation for:
`+"```\n%s\n```"+`

Additional requirements: %s

Include:
- Overview
- Function/class descriptions
- Usage examples
- Parameters and return values`, system, taskCtx.Code(), command)

	default:
		return fmt.Sprintf("%s\n\nUser request: %s", system, command)
	}
}
