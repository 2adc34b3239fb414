package regression

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/handeval/poker"
)

// Case kinds reported in CaseResult.
const (
	KindHand    = "hand"
	KindInvalid = "invalid"
	KindOrder   = "order"
)

// CaseResult is the outcome of a single check.
type CaseResult struct {
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Input   string `json:"input,omitempty"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// Report summarises a suite run.
type Report struct {
	Suite     string        `json:"suite"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration_ns"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Cases     []CaseResult  `json:"cases"`
}

// OK reports whether every case passed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Failures returns the failed cases.
func (r *Report) Failures() []CaseResult {
	var failed []CaseResult
	for _, c := range r.Cases {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// Runner checks suites against the poker package.
type Runner struct {
	logger *log.Logger
	clock  quartz.Clock
}

// NewRunner creates a runner. A nil logger discards output and a nil clock
// uses the real clock.
func NewRunner(logger *log.Logger, clock quartz.Clock) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Runner{
		logger: logger.WithPrefix("regression"),
		clock:  clock,
	}
}

// Run evaluates every case in the suite. Failing cases are recorded in the
// report; the error is non-nil only if ctx is done before the run finishes.
func (r *Runner) Run(ctx context.Context, suite *Suite) (*Report, error) {
	report := &Report{
		Suite:     suite.Name,
		StartTime: r.clock.Now(),
	}

	r.logger.Info("Running suite", "suite", suite.Name, "cases", suite.CaseCount())

	hands := make(map[string]poker.Hand, len(suite.Hands))
	for _, hc := range suite.Hands {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, hand := checkHand(hc)
		if result.Passed {
			hands[hc.Name] = hand
		}
		r.record(report, result)
	}

	for _, ic := range suite.Invalid {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.record(report, checkInvalid(ic))
	}

	for _, oc := range suite.Orders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.record(report, checkOrder(oc, hands))
	}

	report.Duration = r.clock.Since(report.StartTime)
	r.logger.Info("Suite finished",
		"suite", suite.Name,
		"passed", report.Passed,
		"failed", report.Failed,
		"duration", report.Duration)

	return report, nil
}

func (r *Runner) record(report *Report, result CaseResult) {
	report.Cases = append(report.Cases, result)
	if result.Passed {
		report.Passed++
		r.logger.Debug("Case passed", "kind", result.Kind, "name", result.Name)
		return
	}
	report.Failed++
	r.logger.Warn("Case failed", "kind", result.Kind, "name", result.Name, "reason", result.Message)
}

func checkHand(hc HandCase) (CaseResult, poker.Hand) {
	result := CaseResult{Kind: KindHand, Name: hc.Name, Input: hc.Cards}

	want, err := poker.ParseCategory(hc.Category)
	if err != nil {
		result.Message = err.Error()
		return result, poker.Hand{}
	}

	hand, err := poker.ParseHand(hc.Cards)
	if err != nil {
		result.Message = err.Error()
		return result, poker.Hand{}
	}

	if hand.Category() != want {
		result.Message = fmt.Sprintf("expected %s, got %s", want, hand.Category())
		return result, hand
	}

	if len(hc.Rank) > 0 {
		got := hand.Rank()
		for i, v := range hc.Rank {
			if got[i] != v {
				result.Message = fmt.Sprintf("expected rank %v, got %v", hc.Rank, got)
				return result, hand
			}
		}
	}

	result.Passed = true
	return result, hand
}

func checkInvalid(ic InvalidCase) CaseResult {
	result := CaseResult{Kind: KindInvalid, Name: ic.Name, Input: ic.Cards}

	wantErr := poker.ErrInvalidHand
	if ic.Error == ErrorKindCard {
		wantErr = poker.ErrInvalidCard
	}

	hand, err := poker.ParseHand(ic.Cards)
	switch {
	case err == nil:
		result.Message = fmt.Sprintf("expected %s error, got %s", ic.Error, hand)
	case !errors.Is(err, wantErr):
		result.Message = fmt.Sprintf("expected %s error, got %v", ic.Error, err)
	default:
		result.Passed = true
	}
	return result
}

func checkOrder(oc OrderCase, hands map[string]poker.Hand) CaseResult {
	result := CaseResult{Kind: KindOrder, Name: oc.Name}

	for i := 1; i < len(oc.Hands); i++ {
		lo, okLo := hands[oc.Hands[i-1]]
		hi, okHi := hands[oc.Hands[i]]
		if !okLo || !okHi {
			result.Message = fmt.Sprintf("cannot order %s and %s: a hand case failed", oc.Hands[i-1], oc.Hands[i])
			return result
		}
		if !hi.Beats(lo) {
			result.Message = fmt.Sprintf("%s (%s) does not beat %s (%s)", oc.Hands[i], hi, oc.Hands[i-1], lo)
			return result
		}
	}

	result.Passed = true
	return result
}
