package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/nu774/foo-input-caf"
	"github.com/nu774/foo-input-caf/filestream"
	"github.com/nu774/foo-input-caf/metadata"
	"github.com/nu774/foo-input-caf/rewrite"
)

var errBadTagFlag = errors.New(`tag must be in "key=value" form`)

func tagCommand() *cli.Command {
	return &cli.Command{
		Name:      "tag",
		Usage:     "Rewrite a CAF file's info chunk with the given tags",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "tag",
				Aliases: []string{"t"},
				Usage:   `metadata tag in "key=value" form, repeatable`,
			},
		},
		Action: runTag,
	}
}

func runTag(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
	}

	path := cmd.Args().First()

	tags, err := parseTagFlags(cmd.StringSlice("tag"))
	if err != nil {
		return err
	}

	f, err := filestream.Open(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := caf.Parse(ctx, f); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	return rewrite.WriteTags(ctx, f, tags)
}

func parseTagFlags(raw []string) ([]caf.TagEntry, error) {
	entries := make([]caf.TagEntry, 0, len(raw))

	for _, kv := range raw {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: %q", errBadTagFlag, kv)
		}

		cafKey, cafValue := metadata.ToCAF(parts[0], parts[1])
		entries = append(entries, caf.TagEntry{Key: cafKey, Value: cafValue})
	}

	return entries, nil
}
