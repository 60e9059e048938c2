package main

import "fmt"

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	var err error
	if c.Kind == "facts" {
		err = deps.FactStore.DeleteFacts(deps.Ctx, c.SourceURL)
	} else {
		err = deps.HotelStore.DeleteHotels(deps.Ctx, c.SourceURL)
	}
	if err != nil {
		printError(deps, err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Deleted %s for %s\n", c.Kind, c.SourceURL)
	return nil
}
