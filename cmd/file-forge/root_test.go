package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sujal-Gaha/file-forge/pkg/converter"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
	"github.com/Sujal-Gaha/file-forge/pkg/util"
)

func findCommand(t *testing.T, parent *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, c := range parent.Commands() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("command %q not found under %q", name, parent.Name())
	return nil
}

func TestRootCommandWiring(t *testing.T) {
	image := findCommand(t, rootCmd, "image")
	for _, sub := range []string{"convert", "compress", "resize", "rotate"} {
		findCommand(t, image, sub)
	}
	doc := findCommand(t, rootCmd, "doc")
	findCommand(t, doc, "convert")
	pdf := findCommand(t, rootCmd, "pdf")
	findCommand(t, pdf, "extract")
	findCommand(t, pdf, "merge")
	findCommand(t, rootCmd, "info")
	findCommand(t, rootCmd, "version")
}

func TestRootPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "profile", "verbose", "quiet", "no-tui", "concurrency", "on-error", "timeout", "output-format"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "persistent flag --%s", name)
	}
}

func TestQualityFlagDefaults(t *testing.T) {
	image := findCommand(t, rootCmd, "image")

	q := findCommand(t, image, "convert").Flags().Lookup("quality")
	require.NotNil(t, q)
	assert.Equal(t, "95", q.DefValue)

	q = findCommand(t, image, "compress").Flags().Lookup("quality")
	require.NotNil(t, q)
	assert.Equal(t, "85", q.DefValue)
}

func TestNormalizeFormat(t *testing.T) {
	assert.Equal(t, "png", normalizeFormat("PNG"))
	assert.Equal(t, "jpg", normalizeFormat(".jpg"))
	assert.Equal(t, "webp", normalizeFormat("webp"))
}

func TestBuildRequestsDerivesOutputs(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().StringP("output", "o", "", "")

	optSet := converter.OptionSet{Quality: 90}
	requests, err := buildRequests(cmd, []string{"a.png", "b.png"}, kind.ImageRaster, optSet, func(input string) string {
		return util.WithExtension(input, "jpg")
	})
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "a.jpg", requests[0].OutputPath)
	assert.Equal(t, "b.jpg", requests[1].OutputPath)
	assert.Equal(t, kind.ImageRaster, requests[0].TargetKind)
	assert.Equal(t, 90, requests[0].Options.Quality)
}

func TestBuildRequestsExplicitOutput(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().StringP("output", "o", "", "")
	require.NoError(t, cmd.Flags().Set("output", "out.jpg"))

	requests, err := buildRequests(cmd, []string{"a.png"}, kind.ImageRaster, converter.OptionSet{}, func(input string) string {
		return util.WithExtension(input, "jpg")
	})
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "out.jpg", requests[0].OutputPath)
}

func TestBuildRequestsExplicitOutputRejectsMultipleInputs(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().StringP("output", "o", "", "")
	require.NoError(t, cmd.Flags().Set("output", "out.jpg"))

	_, err := buildRequests(cmd, []string{"a.png", "b.png"}, kind.ImageRaster, converter.OptionSet{}, func(input string) string {
		return util.WithExtension(input, "jpg")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, converter.ErrInvalidOption)
	assert.Contains(t, err.Error(), "exactly one input")
}
