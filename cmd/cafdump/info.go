package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/nu774/foo-input-caf"
	"github.com/nu774/foo-input-caf/filestream"
	"github.com/nu774/foo-input-caf/metadata"
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Print format and tag information without decoding",
		ArgsUsage: "<file>",
		Action:    runInfo,
	}
}

func runInfo(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
	}

	path := cmd.Args().First()

	f, err := filestream.Open(path, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	model, err := caf.Parse(ctx, f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	asbd := model.EffectiveFormat().ASBD

	fmt.Printf("codec:         %s\n", asbd.FormatID)
	fmt.Printf("sample rate:   %g Hz\n", asbd.SampleRate)
	fmt.Printf("channels:      %d\n", asbd.ChannelsPerFrame)
	fmt.Printf("bits/channel:  %d\n", asbd.BitsPerChannel)
	fmt.Printf("frames/packet: %d\n", asbd.FramesPerPacket)
	fmt.Printf("packets:       %d\n", model.NumPackets())
	fmt.Printf("duration:      %d frames\n", model.DurationFrames)
	fmt.Printf("priming:       %d frames\n", model.StartOffsetFrames())
	fmt.Printf("padding:       %d frames\n", model.EndPaddingFrames())
	fmt.Printf("nearly CBR:    %v\n", model.NearlyCBR)

	if len(model.Tags) > 0 {
		fmt.Println("tags:")

		for _, t := range model.Tags {
			for _, g := range metadata.FromCAF(t.Key, t.Value) {
				fmt.Printf("  %-16s %s\n", g.Key, g.Value)
			}
		}
	}

	return nil
}
