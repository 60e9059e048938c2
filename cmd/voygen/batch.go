package main

import (
	"fmt"
	"sync"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/crawl"
	"github.com/iamneilroberts/voygen-sub008/decode"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	if deps.Batcher == nil {
		err := voygen.Errorf(voygen.EINTERNAL, "batch extraction is not configured")
		printError(deps, err)
		return err
	}
	if c.Concurrency > 0 {
		deps.Batcher.Concurrency = c.Concurrency
	}

	var mu sync.Mutex
	progress := func(event crawl.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stderr, "  Extracting %d pages\n", event.Total)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.URL, event.Error)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] %s\n", event.Completed, event.Total, event.URL)
		case crawl.ProgressFinished:
		}
	}

	req := voygen.HotelRequest{PageTypeHint: c.PageType, MaxRows: c.MaxRows}
	env := deps.Batcher.ExtractHotels(deps.Ctx, c.URLs, req, progress)

	name := c.Name
	if name == "" && len(c.URLs) > 0 {
		name = c.URLs[0]
	}
	if err := saveEnvelope(deps, name, env); err != nil {
		printError(deps, err)
		return err
	}

	if !env.OK {
		fmt.Fprintf(deps.Stderr, "no hotels found: %s\n", env.Error)
	} else {
		fmt.Fprintf(deps.Stderr, "  Merged %d hotels from %d pages\n", env.Count, len(c.URLs))
	}

	if c.Save && env.OK {
		hotels, _, err := decode.HotelRows(env)
		if err != nil {
			printError(deps, err)
			return err
		}
		if err := deps.HotelStore.ReplaceHotels(deps.Ctx, name, hotels); err != nil {
			printError(deps, err)
			return err
		}
		fmt.Fprintf(deps.Stderr, "stored %d hotels for %s\n", len(hotels), name)
	}
	return writeJSON(deps.Stdout, env)
}
