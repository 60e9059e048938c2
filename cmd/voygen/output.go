package main

import (
	"encoding/json"
	"fmt"
	"io"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError reports err on stderr in the form users see.
func printError(deps *Dependencies, err error) {
	fmt.Fprintf(deps.Stderr, "error: %s\n", voygen.ErrorMessage(err))
}

// saveEnvelope writes env to the envelope store when one is configured.
func saveEnvelope(deps *Dependencies, name string, env *voygen.Envelope) error {
	if deps.Envelopes == nil {
		return nil
	}
	if err := deps.Envelopes.Save(deps.Ctx, name, env); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stderr, "saved envelope for %s\n", name)
	return nil
}
