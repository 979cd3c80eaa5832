package diagnosis

import (
	"fmt"
	"strings"
)

// Confidence shaping constants. Deeper walks mean the answers kept matching
// specific edges; red flags on the path raise confidence that something
// actionable is present, whichever condition it is.
const (
	depthBonus   = 0.05
	redFlagBonus = 0.1
)

// Walk is the resumable per-session state of a tree traversal. It holds only
// IDs and answers, so it serializes with the patient profile and, replayed
// against the same immutable tree, always lands on the same node.
type Walk struct {
	Category  string          `json:"category"`
	NodeID    string          `json:"node_id"`
	Path      []string        `json:"path"`
	Answers   []string        `json:"answers"`
	Clarified map[string]bool `json:"clarified,omitempty"`
	RedFlags  []string        `json:"red_flags,omitempty"`
	Done      bool            `json:"done"`
}

// Assessor walks the per-category question trees. It is stateless across
// sessions: all traversal state lives in the Walk, the trees are read-only.
type Assessor struct {
	trees map[string]*QuestionNode
	index map[string]map[string]*QuestionNode
}

// NewAssessor builds the assessor over the built-in category trees and
// validates every tree. A validation failure means a malformed table and
// must abort startup.
func NewAssessor() (*Assessor, error) {
	return newAssessor(builtinTrees())
}

func newAssessor(trees map[string]*QuestionNode) (*Assessor, error) {
	if _, ok := trees[CategoryGeneral]; !ok {
		return nil, fmt.Errorf("question trees: missing %s fallback tree", CategoryGeneral)
	}
	a := &Assessor{
		trees: trees,
		index: make(map[string]map[string]*QuestionNode, len(trees)),
	}
	seen := map[string]bool{}
	for category, root := range trees {
		if err := validateTree(category, root, seen); err != nil {
			return nil, fmt.Errorf("question trees: %w", err)
		}
		a.index[category] = indexTree(root)
	}
	return a, nil
}

// Categorize picks the tree for a chief complaint by keyword match, falling
// back to the general tree when nothing matches.
func (a *Assessor) Categorize(chiefComplaint string) string {
	text := strings.ToLower(chiefComplaint)
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Category
			}
		}
	}
	return CategoryGeneral
}

// Start begins a walk for the chief complaint and returns the root prompt.
func (a *Assessor) Start(chiefComplaint string) (*Walk, string) {
	category := a.Categorize(chiefComplaint)
	root := a.trees[category]
	return &Walk{
		Category:  category,
		NodeID:    root.ID,
		Path:      []string{root.ID},
		Clarified: map[string]bool{},
	}, root.Prompt
}

// Step consumes one answer. It returns either the next prompt (possibly a
// clarify re-ask of the same node) or the terminal PatternMatch with its
// confidence computed from path depth and red flags. Exactly one of the two
// return values is set.
func (a *Assessor) Step(w *Walk, answer string) (string, *PatternMatch, error) {
	if w.Done {
		return "", nil, fmt.Errorf("diagnostic walk already complete")
	}
	node, ok := a.index[w.Category][w.NodeID]
	if !ok {
		return "", nil, fmt.Errorf("diagnostic walk lost: category %s node %s", w.Category, w.NodeID)
	}
	if node.terminal() {
		return "", nil, fmt.Errorf("diagnostic walk stopped on terminal node %s", node.ID)
	}

	w.Answers = append(w.Answers, answer)

	child, redFlag, matched := matchEdge(node, answer)
	if !matched {
		if w.Clarified == nil {
			w.Clarified = map[string]bool{}
		}
		if !w.Clarified[node.ID] {
			// One re-ask per node; a second miss falls through to the
			// default child instead of looping.
			w.Clarified[node.ID] = true
			return node.clarifyPrompt(), nil, nil
		}
		child = node.Default
	}
	if redFlag != "" {
		w.RedFlags = appendUnique(w.RedFlags, redFlag)
	}

	w.Path = append(w.Path, child.ID)
	w.NodeID = child.ID

	if child.terminal() {
		w.Done = true
		return "", a.finishMatch(child.Match, w), nil
	}
	return child.Prompt, nil, nil
}

// finishMatch copies the leaf's pattern and folds in path-derived signal:
// depth raises specificity, red flags raise confidence, and flags collected
// along the walk are merged into the match.
func (a *Assessor) finishMatch(leaf *PatternMatch, w *Walk) *PatternMatch {
	m := *leaf
	depth := len(w.Path) - 1
	m.Confidence = clamp01(m.Confidence + depthBonus*float64(depth) + redFlagBonus*float64(len(w.RedFlags)))
	for _, f := range w.RedFlags {
		m.RedFlags = appendUnique(m.RedFlags, f)
	}
	return &m
}

// matchEdge selects the first edge whose pattern appears in the answer.
// Patterns of three characters or fewer must match a whole word so that
// "no" does not fire inside "know".
func matchEdge(node *QuestionNode, answer string) (*QuestionNode, string, bool) {
	text := strings.ToLower(answer)
	words := strings.Fields(strings.Map(stripPunct, text))
	for _, e := range node.Edges {
		for _, p := range e.Patterns {
			if len(p) <= 3 {
				for _, word := range words {
					if word == p {
						return e.Child, e.RedFlag, true
					}
				}
				continue
			}
			if strings.Contains(text, p) {
				return e.Child, e.RedFlag, true
			}
		}
	}
	return nil, "", false
}

func stripPunct(r rune) rune {
	switch r {
	case '.', ',', '!', '?', ';', ':':
		return ' '
	}
	return r
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
