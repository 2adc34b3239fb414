package regression

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestDefaultSuitePasses(t *testing.T) {
	t.Parallel()
	suite, err := DefaultSuite()
	require.NoError(t, err)
	assert.Equal(t, "canonical", suite.Name)

	clock := quartz.NewMock(t)
	report, err := NewRunner(testLogger(), clock).Run(context.Background(), suite)
	require.NoError(t, err)

	assert.Empty(t, report.Failures())
	assert.True(t, report.OK())
	assert.Equal(t, suite.CaseCount(), report.Passed)
	assert.Equal(t, clock.Now(), report.StartTime)
	assert.Equal(t, time.Duration(0), report.Duration)
}

func TestRunnerReportsFailures(t *testing.T) {
	t.Parallel()
	src := `
hand "mislabelled" {
  cards    = "2S 3S 4S 5S 6S"
  category = "Flush"
}

hand "bad_rank" {
  cards    = "5H 4S 3S 2D AS"
  category = "Straight"
  rank     = [4, 12, 3, 2, 1, 0]
}

hand "pair" {
  cards    = "2C 2D 3H 4S 5C"
  category = "one_pair"
}

hand "high" {
  cards    = "AS KD QC JH 9D"
  category = "high_card"
}

hand "broken" {
  cards    = "AS AS KD QC JH"
  category = "one_pair"
}

invalid "not invalid" {
  cards = "AS KD QC JH 9D"
  error = "hand"
}

invalid "wrong kind" {
  cards = "XX KD QC JH 9D"
  error = "hand"
}

order "backwards" {
  hands = ["pair", "high"]
}

order "depends on broken" {
  hands = ["high", "broken"]
}
`
	suite, err := ParseSuite([]byte(src), "failing.hcl")
	require.NoError(t, err)
	assert.Equal(t, "failing.hcl", suite.Name)

	report, err := NewRunner(testLogger(), quartz.NewMock(t)).Run(context.Background(), suite)
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, 2, report.Passed)
	assert.Equal(t, 7, report.Failed)

	byName := make(map[string]CaseResult)
	for _, c := range report.Cases {
		byName[c.Name] = c
	}
	assert.Contains(t, byName["mislabelled"].Message, "expected Flush, got Straight Flush")
	assert.Contains(t, byName["bad_rank"].Message, "expected rank")
	assert.Contains(t, byName["broken"].Message, "same card: AS")
	assert.Contains(t, byName["not invalid"].Message, "expected hand error")
	assert.Contains(t, byName["wrong kind"].Message, "'XX'")
	assert.Contains(t, byName["backwards"].Message, "does not beat")
	assert.Contains(t, byName["depends on broken"].Message, "a hand case failed")
	assert.True(t, byName["pair"].Passed)
	assert.True(t, byName["high"].Passed)
}

func TestRunnerCancelled(t *testing.T) {
	t.Parallel()
	suite, err := DefaultSuite()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewRunner(nil, nil).Run(ctx, suite)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSuiteValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name: "unknown category",
			src: `hand "a" {
  cards    = "2S 3S 4S 5S 6S"
  category = "Super Flush"
}`,
			wantErr: "unknown hand category",
		},
		{
			name: "duplicate name",
			src: `hand "a" {
  cards    = "2S 3S 4S 5S 6S"
  category = "Straight Flush"
}
invalid "a" {
  cards = "2S"
  error = "hand"
}`,
			wantErr: "duplicate case name",
		},
		{
			name: "bad error kind",
			src: `invalid "a" {
  cards = "2S"
  error = "deck"
}`,
			wantErr: "error must be",
		},
		{
			name:    "unknown order hand",
			src:     `order "o" { hands = ["x", "y"] }`,
			wantErr: "unknown hand x",
		},
		{
			name: "short order",
			src: `hand "a" {
  cards    = "2S 3S 4S 5S 6S"
  category = "Straight Flush"
}
order "o" { hands = ["a"] }`,
			wantErr: "at least two hands",
		},
		{
			name: "short rank",
			src: `hand "a" {
  cards    = "2S 3S 4S 5S 6S"
  category = "Straight Flush"
  rank     = [8, 4]
}`,
			wantErr: "rank must have 6 elements",
		},
		{
			name:    "missing required attribute",
			src:     `hand "a" { category = "Flush" }`,
			wantErr: "failed to decode HCL",
		},
		{
			name:    "syntax error",
			src:     `hand "a" {`,
			wantErr: "failed to parse HCL file",
		},
	}

	for _, testCase := range tests {
		tc := testCase
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseSuite([]byte(tc.src), "test.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadSuite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "suite.hcl")
	require.NoError(t, os.WriteFile(path, defaultSuite, 0o600))

	suite, err := LoadSuite(path)
	require.NoError(t, err)
	assert.Len(t, suite.Hands, 16)
	assert.Len(t, suite.Invalid, 5)
	assert.Len(t, suite.Orders, 4)

	_, err = LoadSuite(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.ErrorContains(t, err, "failed to read suite")
}

func TestReporter(t *testing.T) {
	t.Parallel()
	report := &Report{
		Suite:  "demo",
		Passed: 1,
		Failed: 1,
		Cases: []CaseResult{
			{Kind: KindHand, Name: "royal", Input: "TS JS QS KS AS", Passed: true},
			{Kind: KindOrder, Name: "broken", Message: "x does not beat y"},
		},
	}

	var summary bytes.Buffer
	require.NoError(t, NewReporter(&summary).Write(report, FormatSummary))
	out := summary.String()
	assert.Contains(t, out, "Suite: demo")
	assert.Contains(t, out, "royal")
	assert.Contains(t, out, "TS JS QS KS AS")
	assert.Contains(t, out, "x does not beat y")
	assert.Contains(t, out, "FAILED")

	var raw bytes.Buffer
	require.NoError(t, NewReporter(&raw).Write(report, FormatJSON))
	var decoded Report
	require.NoError(t, json.Unmarshal(raw.Bytes(), &decoded))
	assert.Equal(t, report.Cases, decoded.Cases)

	assert.Error(t, NewReporter(&raw).Write(report, "xml"))
}
