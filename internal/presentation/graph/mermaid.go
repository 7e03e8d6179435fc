package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/aretw0/fsmkit/pkg/fsm"
)

// Overlay contains dynamic state data to visualize on the graph.
type Overlay struct {
	Visited []domain.StateID
	Current domain.StateID
}

// Labeler returns the human name of a state.
type Labeler func(domain.StateID) string

// GenerateMermaid produces a Mermaid flowchart of a transition table.
// It applies semantic styling:
// - Initial: ((Circle))
// - Sink (no outgoing transition): ([Stadium])
// - Default: [Rectangle]
// Edges are labelled with the action, and the effect name when there is one.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(table *fsm.Table, initial domain.StateID, label Labeler, overlay *Overlay) string {
	if label == nil {
		label = func(id domain.StateID) string { return string(id) }
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, state := range table.States() {
		opener, closer := "[", "]"
		switch {
		case state == initial:
			opener, closer = "((", "))"
		case !table.IsSource(state):
			opener, closer = "([", "])"
		}
		// Escape double quotes in labels for Mermaid
		text := strings.ReplaceAll(label(state), "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(string(state)), opener, text, closer))
	}

	for _, entry := range table.Entries() {
		edge := string(entry.Action)
		if entry.EffectName != "" {
			edge += " / " + entry.EffectName
		}
		edge = strings.ReplaceAll(edge, "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n",
			sanitizeMermaidID(string(entry.From)), edge, sanitizeMermaidID(string(entry.To))))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, id := range overlay.Visited {
			// Only style states that exist in the table
			if !table.HasState(id) {
				continue
			}
			safeID := sanitizeMermaidID(string(id))
			if !visited[safeID] {
				visited[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.Current != "" && table.HasState(overlay.Current) {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(string(overlay.Current))))
		}
	}

	return sb.String()
}

// MarkdownTable renders the transitions as a markdown table, in declaration order.
func MarkdownTable(table *fsm.Table, initial domain.StateID, label Labeler) string {
	if label == nil {
		label = func(id domain.StateID) string { return string(id) }
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Initial state: **%s**\n\n", label(initial)))
	sb.WriteString("| From | Action | To | Effect |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, e := range table.Entries() {
		effect := e.EffectName
		if effect == "" {
			effect = "-"
		}
		sb.WriteString(fmt.Sprintf("| %s | `%s` | %s | %s |\n",
			escapeCell(label(e.From)), e.Action, escapeCell(label(e.To)), escapeCell(effect)))
	}
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
