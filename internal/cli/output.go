package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/vkoshelev/storerules/internal/engine"
	"github.com/vkoshelev/storerules/internal/store"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// PrintRules outputs rules in the specified format
func PrintRules(rules []store.Rule, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(rules)
	case FormatYAML:
		return printYAML(rules)
	case FormatTable:
		return printTable(rules)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintRule outputs a single rule in the specified format
func PrintRule(rule *store.Rule, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(rule)
	case FormatYAML:
		return printYAML(rule)
	case FormatTable:
		return printTable([]store.Rule{*rule})
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintTrace outputs a per-condition evaluation trace as a table.
func PrintTrace(matched bool, trace []engine.ConditionResult) error {
	fmt.Printf("matched: %v\n", matched)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Identifier", "Operator", "Status", "Detail")
	for _, cr := range trace {
		table.Append(cr.Identifier, string(cr.Operator), string(cr.Status), cr.Detail)
	}
	return table.Render()
}

func printJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	// Wrap slices of store.Rule in a "rules" key for consistency with documentation
	if rules, ok := data.([]store.Rule); ok {
		return encoder.Encode(map[string][]store.Rule{"rules": rules})
	}
	return encoder.Encode(data)
}

func printYAML(data interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

func printTable(rules []store.Rule) error {
	table := tablewriter.NewWriter(os.Stdout)

	// Set headers
	table.Header("ID", "Name", "Enabled", "Conditions", "Updated At")

	// Add rows
	for _, rule := range rules {
		enabled := "false"
		if rule.Enabled {
			enabled = "true"
		}

		table.Append(
			rule.ID,
			rule.Name,
			enabled,
			summarizeConditions(rule),
			rule.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}

	return table.Render()
}

// summarizeConditions renders conditions as "identifier op v1,v2" fragments,
// truncated to keep table rows readable.
func summarizeConditions(rule store.Rule) string {
	parts := make([]string, 0, len(rule.Conditions))
	for _, c := range rule.Conditions {
		parts = append(parts, fmt.Sprintf("%s %s %s", c.Identifier, c.Operator, strings.Join(c.Values, ",")))
	}
	summary := strings.Join(parts, "; ")
	if len(summary) > 60 {
		summary = summary[:57] + "..."
	}
	return summary
}
