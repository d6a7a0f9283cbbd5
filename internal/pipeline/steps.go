package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// Stage numbers. Stages always run in ascending order; each consumes the
// previous stage's artifact.
const (
	StageFilter      = 1
	StageOptimize    = 2
	StageRender      = 3
	StageCoverLetter = 4
)

var stageNames = map[int]string{
	StageFilter:      "relevance filter",
	StageOptimize:    "llm optimization",
	StageRender:      "render and compile",
	StageCoverLetter: "cover letter",
}

// StepRange is an inclusive range of stages to run.
type StepRange struct {
	From, To int
}

func (r StepRange) Contains(stage int) bool {
	return stage >= r.From && stage <= r.To
}

// ParseSteps accepts "all", a single stage number ("2"), or an inclusive
// range ("2-3").
func ParseSteps(s string) (StepRange, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return StepRange{From: StageFilter, To: StageRender}, nil
	}

	parse := func(part string) (int, error) {
		n, err := strconv.Atoi(part)
		if err != nil || n < StageFilter || n > StageCoverLetter {
			return 0, fmt.Errorf("invalid stage %q: want 1-%d", part, StageCoverLetter)
		}
		return n, nil
	}

	if lo, hi, ok := strings.Cut(s, "-"); ok {
		from, err := parse(lo)
		if err != nil {
			return StepRange{}, err
		}
		to, err := parse(hi)
		if err != nil {
			return StepRange{}, err
		}
		if from > to {
			return StepRange{}, fmt.Errorf("invalid step range %q: start after end", s)
		}
		return StepRange{From: from, To: to}, nil
	}

	n, err := parse(s)
	if err != nil {
		return StepRange{}, err
	}
	return StepRange{From: n, To: n}, nil
}
