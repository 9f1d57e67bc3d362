package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintRoutes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRoutes(&buf))

	out := buf.String()
	for _, want := range []string{
		"/api/donate",
		"/api/cart/update/{cart_item_id:[0-9]+}",
		"/api/artist/artworks/{product_id:[0-9]+}/image",
		"artist.logout",
		"events.destroy",
		"/health",
	} {
		assert.Contains(t, out, want)
	}
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "route:list", "migrate", "migrate:rollback", "migrate:status", "seed", "queue:work"} {
		assert.True(t, names[want], want)
	}
}
