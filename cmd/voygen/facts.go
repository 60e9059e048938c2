package main

import (
	"fmt"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/decode"
)

// Run executes the facts command.
func (c *FactsCmd) Run(deps *Dependencies) error {
	page, err := deps.Source.Page(deps.Ctx, c.URL)
	if err != nil {
		printError(deps, err)
		return err
	}

	env := deps.Facts.ExtractFacts(deps.Ctx, page, voygen.FactRequest{
		URL:        c.URL,
		Hint:       c.Hint,
		MaxChars:   c.MaxChars,
		PreferKind: c.Prefer,
	})
	if err := saveEnvelope(deps, c.URL, env); err != nil {
		printError(deps, err)
		return err
	}
	if !env.OK {
		fmt.Fprintf(deps.Stderr, "no facts found: %s\n", env.Error)
	}

	if !c.Save && !c.Decoded {
		return writeJSON(deps.Stdout, env)
	}

	facts, stats, err := decode.TravelFacts(env)
	if err != nil {
		printError(deps, err)
		return err
	}
	if stats.Dropped > 0 {
		fmt.Fprintf(deps.Stderr, "dropped %d of %d facts\n", stats.Dropped, stats.Total)
	}
	if c.Save && env.OK {
		if err := deps.FactStore.ReplaceFacts(deps.Ctx, c.URL, facts); err != nil {
			printError(deps, err)
			return err
		}
		fmt.Fprintf(deps.Stderr, "stored %d facts for %s\n", len(facts), c.URL)
	}
	if c.Decoded {
		return writeJSON(deps.Stdout, facts)
	}
	return writeJSON(deps.Stdout, env)
}
