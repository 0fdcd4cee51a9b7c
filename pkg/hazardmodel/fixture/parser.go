package fixture

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// varPattern matches ${VAR} and $VAR, identical to the teacher's scenario
// parser substitution syntax.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// Parser parses a hazard model YAML file, substituting ${VAR}/$VAR
// references from its own Variables map and then the environment.
type Parser struct {
	Variables map[string]string
}

// NewParser returns a Parser with the given substitution variables.
func NewParser(variables map[string]string) *Parser {
	if variables == nil {
		variables = make(map[string]string)
	}
	return &Parser{Variables: variables}
}

// ParseFile reads and parses a model definition from path.
func (p *Parser) ParseFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: failed to read model file: %w", err)
	}
	return p.Parse(data)
}

// Parse parses a model definition from YAML bytes.
func (p *Parser) Parse(data []byte) (*Model, error) {
	substituted := p.substituteVariables(string(data))

	var m Model
	if err := yaml.Unmarshal([]byte(substituted), &m); err != nil {
		return nil, fmt.Errorf("fixture: failed to parse YAML: %w", err)
	}
	if err := p.validateRequiredFields(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (p *Parser) substituteVariables(content string) string {
	return varPattern.ReplaceAllStringFunc(content, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}
		if val, ok := p.Variables[varName]; ok {
			return val
		}
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})
}

// SetVariable sets one substitution variable.
func (p *Parser) SetVariable(key, value string) {
	p.Variables[key] = value
}

// validateRequiredFields checks the structural invariants a hazard model
// definition must satisfy before Build can safely walk it.
func (p *Parser) validateRequiredFields(m *Model) error {
	if m.APIVersion == "" {
		return fmt.Errorf("fixture: apiVersion is required")
	}
	if m.Kind == "" {
		return fmt.Errorf("fixture: kind is required")
	}
	if m.Metadata.Name == "" {
		return fmt.Errorf("fixture: metadata.name is required")
	}
	if len(m.Spec.SourceSets) == 0 {
		return fmt.Errorf("fixture: spec.source_sets is required and must have at least one source-set")
	}

	for i, ss := range m.Spec.SourceSets {
		if ss.Name == "" {
			return fmt.Errorf("fixture: spec.source_sets[%d].name is required", i)
		}
		if ss.Type == "" {
			return fmt.Errorf("fixture: spec.source_sets[%d].type is required", i)
		}
		if len(ss.Gmms.Members) == 0 {
			return fmt.Errorf("fixture: spec.source_sets[%d].gmms.members is required and must have at least one gmm", i)
		}
		for j, g := range ss.Gmms.Members {
			if g.Name == "" || g.Kind == "" {
				return fmt.Errorf("fixture: spec.source_sets[%d].gmms.members[%d] requires name and kind", i, j)
			}
		}
		switch strings.ToUpper(ss.Type) {
		case "CLUSTER":
			if len(ss.Clusters) == 0 {
				return fmt.Errorf("fixture: spec.source_sets[%d] is type CLUSTER but has no clusters", i)
			}
		case "SYSTEM":
			if ss.System == nil {
				return fmt.Errorf("fixture: spec.source_sets[%d] is type SYSTEM but has no system block", i)
			}
		default:
			if len(ss.Sources) == 0 {
				return fmt.Errorf("fixture: spec.source_sets[%d] is type %s but has no sources", i, ss.Type)
			}
		}
	}
	return nil
}
