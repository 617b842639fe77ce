package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ingest", "batch", "migrate", "request", "import", "serve"} {
		assert.True(t, names[want], "command %s not registered", want)
	}
}

func TestRequestSubcommands(t *testing.T) {
	sub := map[string]bool{}
	for _, c := range requestCmd.Commands() {
		sub[c.Name()] = true
	}
	assert.True(t, sub["add"])
	assert.True(t, sub["list"])
}

func TestProgressHooksAreSafe(t *testing.T) {
	hooks := progressHooks()
	require.NotNil(t, hooks)
	hooks.StageStart("resolve")
	hooks.SectionDone("taxonomy", nil)
	hooks.ImageSourceDone("unsplash", 2, nil)
}
