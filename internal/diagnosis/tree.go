// Package diagnosis implements the question-tree assessor. Given a symptom
// category it asks follow-up questions and terminates in a confidence-rated
// symptom pattern match. Trees are static tables, built once at process start
// and shared read-only by all sessions.
package diagnosis

import (
	"fmt"
	"strings"
)

// AnswerShape describes what kind of answer a question expects.
type AnswerShape string

const (
	ShapeFreeText AnswerShape = "free_text"
	ShapeChoice   AnswerShape = "choice"
)

// PatternMatch is a terminal assessment: a likely symptom cluster with a
// confidence value. It labels possibilities - it is never a diagnosis.
type PatternMatch struct {
	Condition  string   `json:"condition"`
	Summary    string   `json:"summary"`
	Urgency    string   `json:"urgency"` // green, yellow, red
	Confidence float64  `json:"confidence"`
	RedFlags   []string `json:"red_flags,omitempty"`
	Advice     string   `json:"advice"`
}

// Edge routes an answer to a child node when any of its patterns is found
// in the answer text. Taking an edge may record a red flag on the walk.
type Edge struct {
	Patterns []string
	RedFlag  string
	Child    *QuestionNode
}

// QuestionNode is one node of a category tree. A node is terminal when
// Match is non-nil; otherwise it carries a prompt, edges keyed by answer
// pattern, and a default child for answers that match nothing twice.
type QuestionNode struct {
	ID      string
	Prompt  string
	Clarify string
	Shape   AnswerShape
	Edges   []Edge
	Default *QuestionNode
	Match   *PatternMatch
}

func (n *QuestionNode) terminal() bool { return n.Match != nil }

// clarifyPrompt rephrases the question for the single allowed re-ask. For
// choice-shaped questions the options are spelled out explicitly.
func (n *QuestionNode) clarifyPrompt() string {
	base := n.Clarify
	if base == "" {
		base = "Sorry, I didn't catch that. " + n.Prompt
	}
	if n.Shape == ShapeChoice && len(n.Edges) > 0 {
		opts := make([]string, 0, len(n.Edges))
		for _, e := range n.Edges {
			if len(e.Patterns) > 0 {
				opts = append(opts, e.Patterns[0])
			}
		}
		return base + " For example: " + strings.Join(opts, ", ") + "."
	}
	return base
}

// validateTree walks a category tree and checks the invariants the engine
// relies on: prompts and defaults on every interior node, confidences in
// range, unique IDs, and no cycles. A violation is a startup failure.
func validateTree(category string, root *QuestionNode, seen map[string]bool) error {
	var visit func(n *QuestionNode, onPath map[*QuestionNode]bool) error
	visit = func(n *QuestionNode, onPath map[*QuestionNode]bool) error {
		if n == nil {
			return fmt.Errorf("category %s: nil node", category)
		}
		if onPath[n] {
			return fmt.Errorf("category %s: cycle through node %s", category, n.ID)
		}
		if n.ID == "" {
			return fmt.Errorf("category %s: node without id", category)
		}
		if seen[n.ID] {
			// Shared leaves across categories are allowed; revisit is fine
			// as long as the node is consistent, so only interior dupes on
			// the same path are cycles (checked above).
		}
		seen[n.ID] = true

		if n.terminal() {
			m := n.Match
			if m.Condition == "" {
				return fmt.Errorf("category %s: leaf %s without condition", category, n.ID)
			}
			if m.Confidence < 0 || m.Confidence > 1 {
				return fmt.Errorf("category %s: leaf %s confidence %.2f out of range", category, n.ID, m.Confidence)
			}
			switch m.Urgency {
			case "green", "yellow", "red":
			default:
				return fmt.Errorf("category %s: leaf %s has unknown urgency %q", category, n.ID, m.Urgency)
			}
			return nil
		}

		if n.Prompt == "" {
			return fmt.Errorf("category %s: node %s without prompt", category, n.ID)
		}
		if len(n.Edges) == 0 {
			return fmt.Errorf("category %s: node %s has no edges", category, n.ID)
		}
		if n.Default == nil {
			return fmt.Errorf("category %s: node %s has no default child", category, n.ID)
		}

		onPath[n] = true
		defer delete(onPath, n)

		for _, e := range n.Edges {
			if len(e.Patterns) == 0 {
				return fmt.Errorf("category %s: node %s has edge without patterns", category, n.ID)
			}
			if err := visit(e.Child, onPath); err != nil {
				return err
			}
		}
		return visit(n.Default, onPath)
	}
	return visit(root, map[*QuestionNode]bool{})
}

// indexTree maps node IDs to nodes so a serialized walk can be resumed.
func indexTree(root *QuestionNode) map[string]*QuestionNode {
	index := map[string]*QuestionNode{}
	var visit func(n *QuestionNode)
	visit = func(n *QuestionNode) {
		if n == nil {
			return
		}
		if _, ok := index[n.ID]; ok {
			return
		}
		index[n.ID] = n
		for _, e := range n.Edges {
			visit(e.Child)
		}
		visit(n.Default)
	}
	visit(root)
	return index
}
