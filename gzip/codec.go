// Package gzip implements the envelope payload transport: gzip compression
// wrapped in standard base64, with newline-delimited JSON framing for
// row payloads.
package gzip

import (
	"bytes"
	stdgzip "compress/gzip"
	"encoding/base64"
	"encoding/json"
	"io"
	"strings"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

// Encode compresses payload and returns it base64 encoded.
func Encode(payload string) (string, error) {
	var buf bytes.Buffer
	zw := stdgzip.NewWriter(&buf)
	if _, err := io.WriteString(zw, payload); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode reverses Encode. Corrupt or truncated input returns an EDECODE error.
func Decode(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", voygen.Errorf(voygen.EDECODE, "invalid base64 payload: %v", err)
	}

	zr, err := stdgzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", voygen.Errorf(voygen.EDECODE, "invalid gzip payload: %v", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return "", voygen.Errorf(voygen.EDECODE, "corrupt gzip payload: %v", err)
	}
	return string(out), nil
}

// JoinNDJSON frames records as newline-delimited JSON: one record per line,
// single separators, no trailing newline.
func JoinNDJSON[T any](records []T) (string, error) {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			return "", err
		}
		lines = append(lines, string(b))
	}
	return strings.Join(lines, "\n"), nil
}

// SplitNDJSON splits an NDJSON payload into trimmed, non-empty lines.
func SplitNDJSON(payload string) []string {
	var lines []string
	for _, line := range strings.Split(payload, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// EncodeNDJSON frames records as NDJSON and compresses them.
func EncodeNDJSON[T any](records []T) (string, error) {
	payload, err := JoinNDJSON(records)
	if err != nil {
		return "", err
	}
	return Encode(payload)
}

// EncodeJSON marshals v as one JSON document and compresses it.
func EncodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Encode(string(b))
}
