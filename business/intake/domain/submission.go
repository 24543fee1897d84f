// Package domain defines the wire format of route submissions.
package domain

import (
	"encoding/json"
	"fmt"

	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
)

// HopSpec is one swap leg of a submitted route.
type HopSpec struct {
	Venue    string `json:"venue"`
	TokenIn  string `json:"token_in"`
	TokenOut string `json:"token_out"`
	FeeParam uint32 `json:"fee_param,omitempty"`
	MinOut   string `json:"min_out,omitempty"` // decimal, display units
}

// Submission is a fully formed arbitrage route arriving from the feed or
// a route file. Discovery happens upstream; the engine only validates and
// executes.
type Submission struct {
	Asset   string    `json:"asset"`   // borrowed asset symbol
	Amount  string    `json:"amount"`  // decimal, display units
	Variant string    `json:"variant"` // simple-2step, triangular, multihop
	Hops    []HopSpec `json:"hops"`
}

// ParseSubmission decodes and structurally validates one submission.
// Semantic route validation (chaining, closure, hop counts) happens when
// the strategy is built.
func ParseSubmission(data []byte) (Submission, error) {
	var sub Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return Submission{}, apperror.External(apperror.CodeInvalidSubmission, "decode submission", err)
	}
	if err := sub.Validate(); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

// Validate checks the structural fields every submission must carry.
func (s Submission) Validate() error {
	switch {
	case s.Asset == "":
		return invalid("missing asset")
	case s.Amount == "":
		return invalid("missing amount")
	case s.Variant == "":
		return invalid("missing variant")
	case len(s.Hops) == 0:
		return invalid("missing hops")
	}
	for i, hop := range s.Hops {
		if hop.Venue == "" || hop.TokenIn == "" || hop.TokenOut == "" {
			return invalid(fmt.Sprintf("hop %d is incomplete", i))
		}
	}
	return nil
}

func invalid(context string) error {
	return apperror.New(apperror.CodeInvalidSubmission, apperror.WithContext(context))
}
