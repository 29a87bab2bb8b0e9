// Package main provides the cafdump CLI for inspecting, decoding, and
// tagging Core Audio Format files.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/nu774/foo-input-caf/version"
)

func main() {
	ctx := context.Background()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	appl := &cli.Command{
		Name:    version.Name(),
		Usage:   "Inspect, decode, and tag CAF audio files",
		Version: version.Version() + " (" + version.Commit() + " - " + version.Date() + ")",
		Commands: []*cli.Command{
			infoCommand(),
			decodeCommand(),
			tagCommand(),
		},
	}

	ctx = logger.WithContext(ctx)

	if err := appl.Run(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("cafdump failed")
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)

		os.Exit(1)
	}
}
