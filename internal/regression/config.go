// Package regression runs HCL fixture suites of hands against the evaluator.
package regression

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/handeval/poker"
)

//go:embed suites/default.hcl
var defaultSuite []byte

// Error kinds accepted by invalid blocks.
const (
	ErrorKindCard = "card"
	ErrorKindHand = "hand"
)

// Suite is a set of fixture cases decoded from HCL.
type Suite struct {
	Name    string        `hcl:"name,optional"`
	Hands   []HandCase    `hcl:"hand,block"`
	Invalid []InvalidCase `hcl:"invalid,block"`
	Orders  []OrderCase   `hcl:"order,block"`
}

// HandCase expects a hand to evaluate to a category and, optionally, an
// exact rank key.
type HandCase struct {
	Name     string `hcl:"name,label"`
	Cards    string `hcl:"cards"`
	Category string `hcl:"category"`
	Rank     []int  `hcl:"rank,optional"`
}

// InvalidCase expects a hand string to be rejected with a card or hand error.
type InvalidCase struct {
	Name  string `hcl:"name,label"`
	Cards string `hcl:"cards"`
	Error string `hcl:"error"`
}

// OrderCase lists hand case names that must compare strictly ascending.
type OrderCase struct {
	Name  string   `hcl:"name,label"`
	Hands []string `hcl:"hands"`
}

// DefaultSuite returns the built-in suite of canonical hands.
func DefaultSuite() (*Suite, error) {
	return ParseSuite(defaultSuite, "default.hcl")
}

// LoadSuite loads a suite from an HCL file
func LoadSuite(filename string) (*Suite, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite: %w", err)
	}
	return ParseSuite(src, filename)
}

// ParseSuite decodes and validates suite source.
func ParseSuite(src []byte, filename string) (*Suite, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var suite Suite
	diags = gohcl.DecodeBody(file.Body, nil, &suite)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if suite.Name == "" {
		suite.Name = filename
	}

	if err := suite.Validate(); err != nil {
		return nil, err
	}
	return &suite, nil
}

// Validate checks the suite is internally consistent. It does not evaluate
// any hands.
func (s *Suite) Validate() error {
	names := make(map[string]bool)
	for _, h := range s.Hands {
		if names[h.Name] {
			return fmt.Errorf("hand %s: duplicate case name", h.Name)
		}
		names[h.Name] = true
		if _, err := poker.ParseCategory(h.Category); err != nil {
			return fmt.Errorf("hand %s: %w", h.Name, err)
		}
		if len(h.Rank) != 0 && len(h.Rank) != poker.HandSize+1 {
			return fmt.Errorf("hand %s: rank must have %d elements, got %d", h.Name, poker.HandSize+1, len(h.Rank))
		}
	}

	for _, c := range s.Invalid {
		if names[c.Name] {
			return fmt.Errorf("invalid %s: duplicate case name", c.Name)
		}
		names[c.Name] = true
		if c.Error != ErrorKindCard && c.Error != ErrorKindHand {
			return fmt.Errorf("invalid %s: error must be %q or %q, got %q", c.Name, ErrorKindCard, ErrorKindHand, c.Error)
		}
	}

	hands := make(map[string]bool, len(s.Hands))
	for _, h := range s.Hands {
		hands[h.Name] = true
	}
	for _, o := range s.Orders {
		if len(o.Hands) < 2 {
			return fmt.Errorf("order %s: at least two hands are required", o.Name)
		}
		for _, name := range o.Hands {
			if !hands[name] {
				return fmt.Errorf("order %s: unknown hand %s", o.Name, name)
			}
		}
	}

	return nil
}

// CaseCount returns the number of checks Run performs.
func (s *Suite) CaseCount() int {
	return len(s.Hands) + len(s.Invalid) + len(s.Orders)
}
