package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/store-recommender/internal/config"
)

// withConfig swaps the package-level config for the duration of a test.
func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"recommend", "serve", "stores", "import"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "store-recommender", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRecommendCommand_Flags(t *testing.T) {
	f := recommendCmd.Flags()
	for _, name := range []string{"address", "min-price", "max-price", "color", "type", "brand", "gender", "priority", "format", "output"} {
		assert.NotNil(t, f.Lookup(name), "recommend should have --%s flag", name)
	}

	assert.Equal(t, "60", f.Lookup("priority").DefValue)
	assert.Equal(t, "500000", f.Lookup("min-price").DefValue)
	assert.Equal(t, "1000000", f.Lookup("max-price").DefValue)
	assert.Equal(t, "table", f.Lookup("format").DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestStoresCommand_Flags(t *testing.T) {
	flag := storesCmd.Flags().Lookup("format")
	require.NotNil(t, flag)
	assert.Equal(t, "table", flag.DefValue)
}
