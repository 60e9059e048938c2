package main

import (
	"encoding/json"
	"fmt"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/decode"
	"github.com/iamneilroberts/voygen-sub008/fs"
)

// DecodeResult is the output of the decode command.
type DecodeResult struct {
	Kind    voygen.EnvelopeKind `json:"kind"`
	Route   string              `json:"route,omitempty"`
	Total   int                 `json:"total"`
	Dropped int                 `json:"dropped"`
	Hotels  []voygen.HotelDTO   `json:"hotels,omitempty"`
	Facts   []voygen.TravelFact `json:"facts,omitempty"`

	// Canonical holds the best fact per kind.
	Canonical []voygen.TravelFact `json:"canonical,omitempty"`
}

// Run executes the decode command.
func (c *DecodeCmd) Run(deps *Dependencies) error {
	env, err := c.readEnvelope(deps)
	if err != nil {
		printError(deps, err)
		return err
	}
	if !env.OK {
		fmt.Fprintf(deps.Stderr, "envelope reports failure: %s\n", env.Error)
	}

	result := DecodeResult{Kind: voygen.EnvelopeKind(c.Kind), Route: env.Route}
	var stats voygen.DecodeStats
	switch result.Kind {
	case voygen.EnvelopeHotels:
		result.Hotels, stats, err = decode.HotelRows(env)
	default:
		result.Facts, stats, err = decode.TravelFacts(env)
		result.Canonical = voygen.CanonicalFacts(result.Facts)
	}
	if err != nil {
		printError(deps, err)
		return err
	}
	result.Total, result.Dropped = stats.Total, stats.Dropped
	return writeJSON(deps.Stdout, result)
}

func (c *DecodeCmd) readEnvelope(deps *Dependencies) (*voygen.Envelope, error) {
	if c.File != "-" {
		return fs.ReadEnvelope(c.File)
	}
	if deps.Stdin == nil {
		return nil, voygen.Errorf(voygen.EINVALID, "no input on stdin")
	}
	var env voygen.Envelope
	if err := json.NewDecoder(deps.Stdin).Decode(&env); err != nil {
		return nil, voygen.Errorf(voygen.EDECODE, "invalid envelope: %v", err)
	}
	return &env, nil
}
