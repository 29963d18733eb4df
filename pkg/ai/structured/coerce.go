package structured

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iZhuoxx/AI-web/internal/entity"
)

const (
	MinCount         = 1
	MaxCount         = 50
	DefaultCount     = 10
	MaxQuizOptions   = 6
	MaxMindMapDepth  = 4
	MaxMindMapFanout = 12
)

// ErrEmptyResult means nothing usable survived coercion.
var ErrEmptyResult = errors.New("structured: no usable items in model output")

// ClampCount maps a requested count into [MinCount, MaxCount]; zero means the default.
func ClampCount(n int) int {
	switch {
	case n == 0:
		return DefaultCount
	case n < MinCount:
		return MinCount
	case n > MaxCount:
		return MaxCount
	}
	return n
}

// stripFences tolerates replies wrapped in a markdown code block.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func decode(raw string, v interface{}) error {
	if err := json.Unmarshal([]byte(stripFences(raw)), v); err != nil {
		return fmt.Errorf("structured: invalid model output: %w", err)
	}
	return nil
}

type FlashcardDraft struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CoerceFlashcards trims fields, drops incomplete or repeated cards and keeps at most limit.
func CoerceFlashcards(raw string, limit int) ([]FlashcardDraft, error) {
	var payload struct {
		Cards []FlashcardDraft `json:"cards"`
	}
	if err := decode(raw, &payload); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	out := make([]FlashcardDraft, 0, len(payload.Cards))
	for _, c := range payload.Cards {
		q, a := strings.TrimSpace(c.Question), strings.TrimSpace(c.Answer)
		if q == "" || a == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, FlashcardDraft{Question: q, Answer: a})
		if len(out) == limit {
			break
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyResult
	}
	return out, nil
}

type QuizDraft struct {
	Question     string
	Options      []string
	CorrectIndex int
	Hint         *string
	Explanation  *string
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// CoerceQuiz drops blank options and remaps correct_index onto the surviving
// ones. A question whose correct option did not survive, or with fewer than two
// options, is dropped.
func CoerceQuiz(raw string, limit int) ([]QuizDraft, error) {
	var payload struct {
		Questions []struct {
			Question     string   `json:"question"`
			Options      []string `json:"options"`
			CorrectIndex int      `json:"correct_index"`
			Hint         string   `json:"hint"`
			Explanation  string   `json:"explanation"`
		} `json:"questions"`
	}
	if err := decode(raw, &payload); err != nil {
		return nil, err
	}

	out := make([]QuizDraft, 0, len(payload.Questions))
	for _, q := range payload.Questions {
		question := strings.TrimSpace(q.Question)
		if question == "" {
			continue
		}
		options := make([]string, 0, len(q.Options))
		correct := -1
		for i, opt := range q.Options {
			opt = strings.TrimSpace(opt)
			if opt == "" || len(options) == MaxQuizOptions {
				continue
			}
			if i == q.CorrectIndex {
				correct = len(options)
			}
			options = append(options, opt)
		}
		if len(options) < 2 || correct < 0 {
			continue
		}
		out = append(out, QuizDraft{
			Question:     question,
			Options:      options,
			CorrectIndex: correct,
			Hint:         optional(q.Hint),
			Explanation:  optional(q.Explanation),
		})
		if len(out) == limit {
			break
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyResult
	}
	return out, nil
}

type mindMapNode struct {
	Topic    string         `json:"topic"`
	Children []*mindMapNode `json:"children"`
}

// CoerceMindMap returns the map title and a normalized tree with stable node
// ids. Blank topics are pruned together with their subtree.
func CoerceMindMap(raw string) (string, entity.MindMapData, error) {
	var payload struct {
		Title string       `json:"title"`
		Root  *mindMapNode `json:"root"`
	}
	if err := decode(raw, &payload); err != nil {
		return "", entity.MindMapData{}, err
	}
	if payload.Root == nil || strings.TrimSpace(payload.Root.Topic) == "" {
		return "", entity.MindMapData{}, ErrEmptyResult
	}

	next := 0
	var build func(n *mindMapNode, depth int) *entity.MindMapNode
	build = func(n *mindMapNode, depth int) *entity.MindMapNode {
		topic := strings.TrimSpace(n.Topic)
		if topic == "" {
			return nil
		}
		node := &entity.MindMapNode{Id: fmt.Sprintf("n%d", next), Topic: topic}
		next++
		if depth >= MaxMindMapDepth {
			return node
		}
		for _, c := range n.Children {
			if c == nil || len(node.Children) == MaxMindMapFanout {
				continue
			}
			if child := build(c, depth+1); child != nil {
				node.Children = append(node.Children, child)
			}
		}
		return node
	}

	root := build(payload.Root, 1)
	root.Id = "root"
	root.Root = true

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		title = root.Topic
	}
	return title, entity.MindMapData{NodeData: root, LinkData: json.RawMessage("{}")}, nil
}
