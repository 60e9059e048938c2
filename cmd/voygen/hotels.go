package main

import (
	"fmt"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/decode"
)

// Run executes the hotels command.
func (c *HotelsCmd) Run(deps *Dependencies) error {
	req := voygen.HotelRequest{
		URL:          c.URL,
		PageTypeHint: c.PageType,
		MaxRows:      c.MaxRows,
		DOMSelector:  c.Selector,
	}

	env, err := c.extract(deps, req)
	if err != nil {
		printError(deps, err)
		return err
	}
	if err := saveEnvelope(deps, c.URL, env); err != nil {
		printError(deps, err)
		return err
	}
	if !env.OK {
		fmt.Fprintf(deps.Stderr, "no hotels found: %s\n", env.Error)
	}

	if !c.Save && !c.Decoded {
		return writeJSON(deps.Stdout, env)
	}

	hotels, stats, err := decode.HotelRows(env)
	if err != nil {
		printError(deps, err)
		return err
	}
	if stats.Dropped > 0 {
		fmt.Fprintf(deps.Stderr, "dropped %d of %d rows\n", stats.Dropped, stats.Total)
	}
	if c.Save && env.OK {
		if err := deps.HotelStore.ReplaceHotels(deps.Ctx, c.URL, hotels); err != nil {
			printError(deps, err)
			return err
		}
		fmt.Fprintf(deps.Stderr, "stored %d hotels for %s\n", len(hotels), c.URL)
	}
	if c.Decoded {
		return writeJSON(deps.Stdout, hotels)
	}
	return writeJSON(deps.Stdout, env)
}

// extract snapshots the page and runs the hotel chain. With a browser the
// tab stays open so re-fetches carry its cookies.
func (c *HotelsCmd) extract(deps *Dependencies, req voygen.HotelRequest) (*voygen.Envelope, error) {
	if deps.Sessions != nil && deps.NewHotelExtractor != nil && !isLocal(c.URL) {
		sess, err := deps.Sessions.Open(deps.Ctx, c.URL)
		if err != nil {
			return nil, err
		}
		defer sess.Close()

		page, err := sess.Snapshot(deps.Ctx)
		if err != nil {
			return nil, err
		}
		return deps.NewHotelExtractor(sess).ExtractHotels(deps.Ctx, page, req), nil
	}

	page, err := deps.Source.Page(deps.Ctx, c.URL)
	if err != nil {
		return nil, err
	}
	return deps.Hotels.ExtractHotels(deps.Ctx, page, req), nil
}
