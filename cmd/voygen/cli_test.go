package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	voygen "github.com/iamneilroberts/voygen-sub008"
	main "github.com/iamneilroberts/voygen-sub008/cmd/voygen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCommands = []string{"hotels", "facts", "batch", "decode", "list", "delete", "serve"}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range allCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_ParsesFlags(t *testing.T) {
	t.Parallel()

	t.Run("hotels flags", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{}
		parser, err := kong.New(cli, kong.Exit(func(int) {}))
		require.NoError(t, err)

		_, err = parser.Parse([]string{"--source", "browser", "hotels", "https://book.example.com/results", "--page-type", "navitrip", "-n", "50", "--selector", ".card", "-d"})

		require.NoError(t, err)
		assert.Equal(t, main.SourceBrowser, cli.Source)
		assert.Equal(t, "https://book.example.com/results", cli.Hotels.URL)
		assert.Equal(t, "navitrip", cli.Hotels.PageType)
		assert.Equal(t, 50, cli.Hotels.MaxRows)
		assert.Equal(t, ".card", cli.Hotels.Selector)
		assert.True(t, cli.Hotels.Decoded)
	})

	t.Run("batch defaults", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{}
		parser, err := kong.New(cli, kong.Exit(func(int) {}))
		require.NoError(t, err)

		_, err = parser.Parse([]string{"batch", "https://a.example.com/p1", "https://a.example.com/p2"})

		require.NoError(t, err)
		assert.Len(t, cli.Batch.URLs, 2)
		assert.Equal(t, 4, cli.Batch.Concurrency)
		assert.InDelta(t, 1.0, cli.Batch.RPS, 0.0001)
		assert.Equal(t, main.ExtractorTrafilatura, cli.Extractor)
	})

	t.Run("rejects unknown source", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{}
		parser, err := kong.New(cli, kong.Exit(func(int) {}))
		require.NoError(t, err)

		_, err = parser.Parse([]string{"--source", "carrier-pigeon", "hotels", "https://example.com"})

		require.Error(t, err)
	})

	t.Run("rejects unknown decode kind", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{}
		parser, err := kong.New(cli, kong.Exit(func(int) {}))
		require.NoError(t, err)

		_, err = parser.Parse([]string{"decode", "cars", "env.json"})

		require.Error(t, err)
	})
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)
	require.NoError(t, err)

	helpOutput := stdout.String()
	for _, cmd := range allCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), nil, stdout, stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

const resultsPage = `<!doctype html>
<html><head><title>Lisbon hotels</title>
<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{
	"searchResults":{"hotels":[
		{"id":"lx1","name":"Hotel Lisboa Plaza","price":{"formatted":"€180","currency":"EUR"},"starRating":4},
		{"id":"lx2","name":"Casa Azul Alfama","price":{"formatted":"€95","currency":"EUR"},"starRating":3}
	]}}}}</script>
</head><body><h1>Hotels in Lisbon</h1></body></html>`

func TestMain_Run_ExtractsHotelsFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	page := filepath.Join(dir, "results.html")
	require.NoError(t, os.WriteFile(page, []byte(resultsPage), 0o644))
	outDir := filepath.Join(dir, "envelopes")

	m := main.NewMain()
	m.DBPath = filepath.Join(dir, "test.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--out", outDir, "hotels", page, "--decoded", "--save"}, stdout, stderr)
	require.NoError(t, err, stderr.String())

	var hotels []voygen.HotelDTO
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &hotels))
	require.Len(t, hotels, 2)
	assert.Equal(t, "Hotel Lisboa Plaza", hotels[0].Name)
	assert.Equal(t, "EUR", hotels[0].Currency)
	assert.Contains(t, stderr.String(), "stored 2 hotels")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	stdout.Reset()
	stderr.Reset()
	m2 := main.NewMain()
	m2.DBPath = m.DBPath
	err = m2.Run(context.Background(), []string{"list", "hotels"}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Hotel Lisboa Plaza")
	assert.Contains(t, stdout.String(), "Casa Azul Alfama")
}
