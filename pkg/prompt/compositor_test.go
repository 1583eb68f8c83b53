package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeIsDeterministic(t *testing.T) {
	c := NewCompositor(1000)
	ctx := TaskContext{"code": "def f(x):\n    return x"}

	for _, role := range Roles {
		for _, kind := range []TaskKind{KindCodeGeneration, KindDebugging, KindDocumentation, KindGeneral} {
			first := c.Compose(role, kind, "explain this", ctx)
			second := c.Compose(role, kind, "explain this", ctx)
			assert.Equal(t, first, second, "role=%s kind=%s", role, kind)
		}
	}
}

func TestComposeTemplates(t *testing.T) {
	c := NewCompositor(250)
	code := "print('hi')"

	tests := []struct {
		name     string
		role     Role
		kind     TaskKind
		command  string
		ctx      TaskContext
		contains []string
		absent   []string
	}{
		{
			name:    "code generation carries line ceiling and fence instruction",
			role:    RoleSoftwareEngineer,
			kind:    KindCodeGeneration,
			command: "write a function that reverses a string",
			contains: []string{
				softwareEngineerInstruction,
				"Generate code for the following request:\nwrite a function that reverses a string",
				"- Maximum 250 lines",
				"```language\ncode here\n```",
				"Then provide explanation.",
			},
		},
		{
			name:    "debugging embeds code and three part answer",
			role:    RoleSoftwareEngineer,
			kind:    KindDebugging,
			command: "it prints the wrong thing",
			ctx:     TaskContext{"code": code},
			contains: []string{
				"Debug the following code:\n```\n" + code + "\n```",
				"Issue description: it prints the wrong thing",
				"1. What's wrong",
				"2. Corrected code",
				"3. Explanation of the fix",
			},
		},
		{
			name:    "documentation without context leaves empty block",
			role:    RoleOfficeWorker,
			kind:    KindDocumentation,
			command: "keep it short",
			contains: []string{
				officeWorkerInstruction,
				"Generate documentation for:\n```\n\n```",
				"Additional requirements: keep it short",
				"- Parameters and return values",
			},
		},
		{
			name:     "general is instruction plus raw command",
			role:     RoleFactoryWorker,
			kind:     KindGeneral,
			command:  "how do I lock out the press?",
			contains: []string{factoryWorkerInstruction + "\n\nUser request: how do I lock out the press?"},
			absent:   []string{"Requirements:", "```"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Compose(tt.role, tt.kind, tt.command, tt.ctx)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, not := range tt.absent {
				assert.NotContains(t, got, not)
			}
		})
	}
}

func TestComposeGeneralIsExact(t *testing.T) {
	c := NewCompositor(0)
	got := c.Compose(RoleOfficeWorker, ParseTaskKind("email_drafting"), "draft a reminder", nil)
	assert.Equal(t, officeWorkerInstruction+"\n\nUser request: draft a reminder", got)
}

func TestDefaultMaxLines(t *testing.T) {
	got := NewCompositor(0).Compose(RoleSoftwareEngineer, KindCodeGeneration, "x", nil)
	assert.Contains(t, got, "- Maximum 1000 lines")
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
		assert.True(t, r.Valid())
		assert.NotEmpty(t, r.Capabilities().Tasks)
	}

	_, err := ParseRole("astronaut")
	assert.Error(t, err)
	assert.False(t, Role("astronaut").Valid())
	assert.Equal(t, softwareEngineerInstruction, Role("astronaut").SystemInstruction())
}

func TestRoleDisplayName(t *testing.T) {
	assert.Equal(t, "Software Engineer", RoleSoftwareEngineer.DisplayName())
	assert.Equal(t, "Factory Worker", RoleFactoryWorker.DisplayName())
}

func TestParseTaskKind(t *testing.T) {
	assert.Equal(t, KindCodeGeneration, ParseTaskKind("code_generation"))
	assert.Equal(t, KindDebugging, ParseTaskKind(" debugging "))
	assert.Equal(t, KindDocumentation, ParseTaskKind("documentation"))
	assert.Equal(t, KindGeneral, ParseTaskKind(""))
	assert.Equal(t, KindGeneral, ParseTaskKind("code_review"))
}

func TestTaskContextCode(t *testing.T) {
	assert.Equal(t, "", TaskContext(nil).Code())
	assert.Equal(t, "", TaskContext{"lang": "go"}.Code())
	assert.Equal(t, "x := 1", TaskContext{"code": "x := 1"}.Code())
	assert.True(t, strings.HasPrefix(TaskContext{"code": 42}.Code(), "42"))
}
