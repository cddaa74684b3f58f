// Package eval scores generated Tech Radar blurbs against reference blurbs
// with an LLM judge.
package eval

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kaptinlin/jsonrepair"

	"tech-radar/internal/llm"
	"tech-radar/internal/prompts"
)

// JudgeMaxTokens caps the judge's reply.
const JudgeMaxTokens = 2048

//go:embed cases/tech_radar.json
var defaultCases []byte

var validate = validator.New()

// Case is one evaluation fixture.
type Case struct {
	Name             string    `json:"name" validate:"required"`
	Input            string    `json:"input" validate:"required"`
	ReferenceOutputs Reference `json:"referenceOutputs"`
}

type Reference struct {
	Blurb string `json:"blurb" validate:"required"`
}

// Verdict is the judge's decision for one case.
type Verdict struct {
	Reasoning string `json:"reasoning"`
	Score     bool   `json:"score"`
}

// LoadCases decodes and validates a JSON array of cases.
func LoadCases(r io.Reader) ([]Case, error) {
	var cases []Case
	if err := json.NewDecoder(r).Decode(&cases); err != nil {
		return nil, fmt.Errorf("decode cases: %w", err)
	}
	for i := range cases {
		if err := validate.Struct(&cases[i]); err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
	}
	return cases, nil
}

// LoadCasesFile reads cases from path, or the built-in set when path is empty.
func LoadCasesFile(path string) ([]Case, error) {
	if path == "" {
		return LoadCases(strings.NewReader(string(defaultCases)))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCases(f)
}

// Judge grades an output for correctness against a reference.
type Judge struct {
	client llm.Client
}

// NewJudge wraps a client that should run at temperature 0 with
// JudgeMaxTokens.
func NewJudge(client llm.Client) *Judge {
	return &Judge{client: client}
}

func (j *Judge) Score(ctx context.Context, input, output, reference string) (Verdict, error) {
	prompt := fmt.Sprintf(prompts.Correctness, input, output, reference)
	reply, err := j.client.Chat(ctx, "", prompt)
	if err != nil {
		return Verdict{}, fmt.Errorf("judge: %w", err)
	}
	return ParseVerdict(reply.Content)
}

// ParseVerdict reads the judge's JSON reply. Code fences are dropped and
// malformed JSON is repaired before giving up.
func ParseVerdict(content string) (Verdict, error) {
	raw := stripFences(content)
	var v Verdict
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v, nil
	}
	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return Verdict{}, fmt.Errorf("judge returned unparseable verdict: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &v); err != nil {
		return Verdict{}, fmt.Errorf("judge returned unparseable verdict: %w", err)
	}
	return v, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
