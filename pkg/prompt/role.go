package prompt

import (
	"fmt"
	"strings"
)

// Role is the closed set of assistant profiles a work session runs under.
type Role string

const (
	RoleSoftwareEngineer Role = "software_engineer"
	RoleOfficeWorker     Role = "office_worker"
	RoleFactoryWorker    Role = "factory_worker"
)

// Roles lists every role in display order.
var Roles = []Role{RoleSoftwareEngineer, RoleOfficeWorker, RoleFactoryWorker}

// ParseRole validates a wire value against the closed set.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleSoftwareEngineer, RoleOfficeWorker, RoleFactoryWorker:
		return r, nil
	default:
		return "", fmt.Errorf("invalid role type %q", s)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// DisplayName renders "software_engineer" as "Software Engineer".
func (r Role) DisplayName() string {
	words := strings.Split(string(r), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// SystemInstruction returns the fixed instruction for the role. Unknown
// values fall back to the engineering instruction.
func (r Role) SystemInstruction() string {
	switch r {
	case RoleOfficeWorker:
		return officeWorkerInstruction
	case RoleFactoryWorker:
		return factoryWorkerInstruction
	default:
		return softwareEngineerInstruction
	}
}

// Capabilities describes what a role offers; it is stored on profiles and
// served by the roles catalogue.
type Capabilities struct {
	Tasks       []string `json:"tasks"`
	Languages   []string `json:"languages,omitempty"`
	Tools       []string `json:"tools,omitempty"`
	Focus       []string `json:"focus,omitempty"`
	Description string   `json:"description"`
}

func (r Role) Capabilities() Capabilities {
	switch r {
	case RoleOfficeWorker:
		return Capabilities{
			Tasks:       []string{"document_creation", "data_analysis", "email_drafting", "meeting_scheduling", "report_generation"},
			Tools:       []string{"Documents", "Spreadsheets", "Presentations"},
			Description: "Office productivity and administrative tasks",
		}
	case RoleFactoryWorker:
		return Capabilities{
			Tasks:       []string{"safety_monitoring", "equipment_guidance", "performance_insights", "maintenance_scheduling", "incident_reporting"},
			Focus:       []string{"Safety", "Efficiency", "Training"},
			Description: "Factory and field work support",
		}
	default:
		return Capabilities{
			Tasks:       []string{"code_generation", "debugging", "documentation", "code_review", "tutorial"},
			Languages:   []string{"Python", "JavaScript", "HTML", "CSS"},
			Description: "Software development and coding assistance",
		}
	}
}

const softwareEngineerInstruction = `You are a Software Engineer Digital Twin AI assistant.
Your capabilities:
- Generate clean, documented code in Python, JavaScript, HTML, CSS
- Debug and analyze code
- Create technical documentation
- Provide coding tutorials and explanations
- Review code and suggest improvements

Guidelines:
- Keep code under 1000 lines per task
- Include helpful comments
- Follow best practices and conventions
- Provide clear explanations
- Format code with proper syntax

When generating code, use markdown code blocks with language specification.`

const officeWorkerInstruction = `You are an Office Worker Digital Twin AI assistant.
Your capabilities:
- Create and edit documents
- Analyze data and create reports
- Draft professional emails
- Help with scheduling and organization
- Automate administrative tasks

Guidelines:
- Be professional and concise
- Focus on productivity
- Provide actionable suggestions
- Format outputs clearly`

const factoryWorkerInstruction = `You are a Factory/Field Worker Digital Twin AI assistant.
Your capabilities:
- Provide safety guidance and protocols
- Assist with equipment operation
- Track performance metrics
- Schedule maintenance tasks
- Help with incident reporting

Guidelines:
- Prioritize safety above all
- Be clear and direct
- Use simple language
- Provide step-by-step instructions`
