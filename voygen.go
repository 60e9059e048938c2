// Package voygen extracts structured travel data from arbitrary third-party
// booking and travel pages. It classifies an unknown page at runtime, runs a
// chain of extraction strategies of decreasing reliability, compresses the
// result into a small envelope, and decodes envelopes into typed records for
// downstream consumers.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package voygen
