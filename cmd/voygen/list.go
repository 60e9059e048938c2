package main

import (
	"fmt"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	if c.Kind == "facts" {
		return c.listFacts(deps)
	}
	return c.listHotels(deps)
}

func (c *ListCmd) listHotels(deps *Dependencies) error {
	filter := voygen.HotelFilter{Limit: c.Limit}
	if c.SourceURL != "" {
		filter.SourceURL = &c.SourceURL
	}
	if c.Name != "" {
		filter.Name = &c.Name
	}
	if c.Currency != "" {
		filter.Currency = &c.Currency
	}

	hotels, err := deps.HotelStore.FindHotels(deps.Ctx, filter)
	if err != nil {
		printError(deps, err)
		return err
	}
	if len(hotels) == 0 {
		fmt.Fprintln(deps.Stdout, "No hotels found. Use 'voygen hotels --save' to store some.")
		return nil
	}
	for _, h := range hotels {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", h.ID, h.Name, h.PriceText)
	}
	return nil
}

func (c *ListCmd) listFacts(deps *Dependencies) error {
	filter := voygen.FactFilter{Limit: c.Limit}
	if c.SourceURL != "" {
		filter.SourceURL = &c.SourceURL
	}
	if c.FactKind != "" {
		kind, ok := voygen.ParseFactKind(c.FactKind)
		if !ok {
			err := voygen.Errorf(voygen.EINVALID, "unknown fact kind %q", c.FactKind)
			printError(deps, err)
			return err
		}
		filter.Kind = &kind
	}
	if c.MinConfidence > 0 {
		filter.MinConfidence = &c.MinConfidence
	}

	facts, err := deps.FactStore.FindFacts(deps.Ctx, filter)
	if err != nil {
		printError(deps, err)
		return err
	}
	if len(facts) == 0 {
		fmt.Fprintln(deps.Stdout, "No facts found. Use 'voygen facts --save' to store some.")
		return nil
	}
	for _, f := range facts {
		fmt.Fprintf(deps.Stdout, "%s  %.2f  %s\n", f.Kind, f.Confidence, factLabel(f.TravelFact))
	}
	return nil
}

// factLabel returns the most descriptive field a fact carries.
func factLabel(f voygen.TravelFact) string {
	for _, s := range []string{f.Name, f.HotelName, f.Title, f.FlightNumber, f.ConfirmationNumber, f.Address, f.URL} {
		if s != "" {
			return s
		}
	}
	return "-"
}
