package query

import (
	"fmt"
	"strings"

	"graphogm/internal/driver"
	"graphogm/internal/traversal"
)

// CypherTranslator compiles the backend-agnostic step sequence into a Cypher
// script with $-placeholders for every bound value.
type CypherTranslator struct{}

// NewCypherTranslator creates a translator targeting Cypher.
func NewCypherTranslator() *CypherTranslator {
	return &CypherTranslator{}
}

// TargetLanguage reports the script language produced by Translate.
func (t *CypherTranslator) TargetLanguage() string {
	return driver.LangCypher
}

// parsed is the normalized shape of a persistence step sequence: one head
// step, optional endpoints, property assignments and one terminal.
type parsed struct {
	head       traversal.Step
	from       traversal.Binding
	to         traversal.Binding
	properties []propertyStep
	terminal   string
}

type propertyStep struct {
	name  string
	value traversal.Binding
}

// Translate compiles bytecode to a Cypher script.
func (t *CypherTranslator) Translate(bc traversal.Bytecode) (string, error) {
	p, err := parse(bc)
	if err != nil {
		return "", err
	}

	switch p.head.Op {
	case traversal.OpV:
		return translateVertex(p)
	case traversal.OpAddV:
		return translateAddVertex(p)
	case traversal.OpE:
		return translateEdge(p)
	case traversal.OpAddE:
		return translateAddEdge(p)
	default:
		return "", fmt.Errorf("unsupported head step: %s", p.head.Op)
	}
}

func parse(bc traversal.Bytecode) (parsed, error) {
	steps := bc.Steps()
	if len(steps) == 0 {
		return parsed{}, fmt.Errorf("empty bytecode")
	}

	p := parsed{head: steps[0]}
	for _, step := range steps[1:] {
		switch step.Op {
		case traversal.OpProperty:
			if len(step.Args) != 2 {
				return parsed{}, fmt.Errorf("property step needs name and value")
			}
			name, ok := step.Args[0].(string)
			if !ok {
				return parsed{}, fmt.Errorf("property name must be a string")
			}
			value, ok := step.Args[1].(traversal.Binding)
			if !ok {
				return parsed{}, fmt.Errorf("property value must be bound, not embedded")
			}
			p.properties = append(p.properties, propertyStep{name: name, value: value})
		case traversal.OpFrom:
			binding, err := bindingArg(step)
			if err != nil {
				return parsed{}, err
			}
			p.from = binding
		case traversal.OpTo:
			binding, err := bindingArg(step)
			if err != nil {
				return parsed{}, err
			}
			p.to = binding
		case traversal.OpDrop, traversal.OpValueMap:
			if p.terminal != "" {
				return parsed{}, fmt.Errorf("multiple terminal steps")
			}
			p.terminal = step.Op
		default:
			return parsed{}, fmt.Errorf("unsupported step: %s", step.Op)
		}
	}
	return p, nil
}

func bindingArg(step traversal.Step) (traversal.Binding, error) {
	if len(step.Args) != 1 {
		return "", fmt.Errorf("%s step needs one argument", step.Op)
	}
	binding, ok := step.Args[0].(traversal.Binding)
	if !ok {
		return "", fmt.Errorf("%s argument must be bound, not embedded", step.Op)
	}
	return binding, nil
}

func headBinding(p parsed) (traversal.Binding, error) {
	if len(p.head.Args) != 1 {
		return "", fmt.Errorf("%s step needs a bound identity", p.head.Op)
	}
	binding, ok := p.head.Args[0].(traversal.Binding)
	if !ok {
		return "", fmt.Errorf("%s identity must be bound, not embedded", p.head.Op)
	}
	return binding, nil
}

const (
	vertexReturn = "RETURN elementId(n) AS id, labels(n)[0] AS label, properties(n) AS properties"
	edgeReturn   = "RETURN elementId(r) AS id, type(r) AS label, properties(r) AS properties, " +
		"elementId(a) AS source, elementId(b) AS target"
)

func translateVertex(p parsed) (string, error) {
	id, err := headBinding(p)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "MATCH (n) WHERE elementId(n) = $%s", id)

	switch p.terminal {
	case traversal.OpDrop:
		sb.WriteString(" DETACH DELETE n RETURN count(n) AS removed")
	case traversal.OpValueMap:
		writeSet(&sb, "n", p.properties)
		sb.WriteString(" " + vertexReturn)
	default:
		return "", fmt.Errorf("vertex traversal needs a terminal step")
	}
	return sb.String(), nil
}

func translateAddVertex(p parsed) (string, error) {
	if p.terminal != traversal.OpValueMap {
		return "", fmt.Errorf("addV traversal must end in valueMap")
	}
	label, err := labelArg(p.head)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE (n:%s)", label)
	writeSet(&sb, "n", p.properties)
	sb.WriteString(" " + vertexReturn)
	return sb.String(), nil
}

func translateEdge(p parsed) (string, error) {
	id, err := headBinding(p)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "MATCH (a)-[r]->(b) WHERE elementId(r) = $%s", id)

	switch p.terminal {
	case traversal.OpDrop:
		sb.WriteString(" DELETE r RETURN count(r) AS removed")
	case traversal.OpValueMap:
		writeSet(&sb, "r", p.properties)
		sb.WriteString(" " + edgeReturn)
	default:
		return "", fmt.Errorf("edge traversal needs a terminal step")
	}
	return sb.String(), nil
}

func translateAddEdge(p parsed) (string, error) {
	if p.terminal != traversal.OpValueMap {
		return "", fmt.Errorf("addE traversal must end in valueMap")
	}
	if p.from == "" || p.to == "" {
		return "", fmt.Errorf("addE traversal needs from and to endpoints")
	}
	label, err := labelArg(p.head)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "MATCH (a) WHERE elementId(a) = $%s", p.from)
	fmt.Fprintf(&sb, " MATCH (b) WHERE elementId(b) = $%s", p.to)
	fmt.Fprintf(&sb, " CREATE (a)-[r:%s]->(b)", label)
	writeSet(&sb, "r", p.properties)
	sb.WriteString(" " + edgeReturn)
	return sb.String(), nil
}

func writeSet(sb *strings.Builder, variable string, properties []propertyStep) {
	if len(properties) == 0 {
		return
	}
	sb.WriteString(" SET ")
	for i, prop := range properties {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "%s.`%s` = $%s", variable, escapeName(prop.name), prop.value)
	}
}

// labelArg extracts a head-step label. Labels and relationship types cannot
// be parameterized in Cypher, so they are quoted inline.
func labelArg(step traversal.Step) (string, error) {
	if len(step.Args) != 1 {
		return "", fmt.Errorf("%s step needs a label", step.Op)
	}
	label, ok := step.Args[0].(string)
	if !ok || label == "" {
		return "", fmt.Errorf("%s label must be a non-empty string", step.Op)
	}
	return "`" + escapeName(label) + "`", nil
}

func escapeName(name string) string {
	return strings.ReplaceAll(name, "`", "")
}
