package eval

import (
	"context"

	"tech-radar/internal/llm"
)

// Generator produces the output under test.
type Generator interface {
	Invoke(ctx context.Context, userPrompt string) (*llm.Reply, error)
}

// Outcome is the result of one case. Err is set when generation or judging failed.
type Outcome struct {
	Case    Case
	Output  string
	Verdict Verdict
	Err     error
}

func (o Outcome) Passed() bool {
	return o.Err == nil && o.Verdict.Score
}

// Run evaluates cases one at a time. A failing case does not stop the run.
func Run(ctx context.Context, gen Generator, judge *Judge, cases []Case) []Outcome {
	out := make([]Outcome, 0, len(cases))
	for _, c := range cases {
		o := Outcome{Case: c}
		if err := ctx.Err(); err != nil {
			o.Err = err
			out = append(out, o)
			continue
		}
		reply, err := gen.Invoke(ctx, c.Input)
		if err != nil {
			o.Err = err
			out = append(out, o)
			continue
		}
		o.Output = reply.Content
		o.Verdict, o.Err = judge.Score(ctx, c.Input, reply.Content, c.ReferenceOutputs.Blurb)
		out = append(out, o)
	}
	return out
}

// Failed counts outcomes that did not pass.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.Passed() {
			n++
		}
	}
	return n
}
