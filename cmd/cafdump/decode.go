package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/nu774/foo-input-caf"
	"github.com/nu774/foo-input-caf/aac"
	"github.com/nu774/foo-input-caf/alac"
	"github.com/nu774/foo-input-caf/alaw"
	"github.com/nu774/foo-input-caf/decoder"
	"github.com/nu774/foo-input-caf/filestream"
	"github.com/nu774/foo-input-caf/flac"
	"github.com/nu774/foo-input-caf/gsm"
	"github.com/nu774/foo-input-caf/mp3"
	"github.com/nu774/foo-input-caf/msadpcm"
	"github.com/nu774/foo-input-caf/seek"
	"github.com/nu774/foo-input-caf/ulaw"
	"github.com/nu774/foo-input-caf/wav"
)

var (
	errInvalidArgCount = errors.New("expected exactly one argument: file path")
	errBitDepth        = errors.New("unsupported output bit depth")
)

func externalPorts() map[caf.FourCC]decoder.ExternalPort {
	return map[caf.FourCC]decoder.ExternalPort{
		caf.CodecALAC:    alac.Port{},
		caf.CodecFLAC:    flac.Port{},
		caf.CodecMP1:     mp3.Port{},
		caf.CodecMP2:     mp3.Port{},
		caf.CodecMP3:     mp3.Port{},
		caf.CodecAACLC:   aac.Port{},
		caf.CodecAACHE:   aac.Port{},
		caf.CodecAACHEv2: aac.Port{},
		caf.CodecALaw:    alaw.Port{},
		caf.CodecULaw:    ulaw.Port{},
		caf.CodecMSADPCM: msadpcm.Port{},
		caf.CodecMSGSM:   gsm.Port{},
	}
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode a CAF file to WAV or raw PCM",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "-",
				Usage:   "output file path (- for stdout)",
			},
			&cli.IntFlag{
				Name:    "bit-depth",
				Aliases: []string{"b"},
				Value:   16,
				Usage:   "output bit depth (16, 24, or 32)",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "output raw PCM instead of WAV",
			},
			&cli.BoolFlag{
				Name:  "allow-he-aacv2",
				Usage: "permit decoding HE-AACv2 streams (parametric stereo is not bit-exact)",
			},
		},
		Action: runDecode,
	}
}

func runDecode(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
	}

	path := cmd.Args().First()

	bitDepth := int(cmd.Int("bit-depth"))
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d", errBitDepth, bitDepth)
	}

	f, err := filestream.Open(path, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	model, err := caf.Parse(ctx, f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	dec := decoder.New(model, decoder.Options{
		AllowHEAACv2: cmd.Bool("allow-he-aacv2"),
		Externals:    externalPorts(),
	})
	defer dec.Close()

	asbd := model.EffectiveFormat().ASBD
	total := model.DurationFrames

	samples, err := seek.ReadFrames(ctx, f, model, dec, 0, total)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	pcm, err := wav.PackSamples(samples, bitDepth)
	if err != nil {
		return err
	}

	if cmd.Bool("raw") {
		return writePCM(cmd.String("output"), pcm)
	}

	return writeWAV(cmd.String("output"), pcm, wav.Format{
		SampleRate: int(asbd.SampleRate),
		Channels:   uint(asbd.ChannelsPerFrame),
		BitDepth:   uint16(bitDepth),
	})
}

func writePCM(output string, data []byte) error {
	if output == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing to stdout: %w", err)
		}

		return nil
	}

	file, err := os.Create(output) //nolint:gosec // CLI tool creates user-specified output files
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func writeWAV(output string, data []byte, format wav.Format) error {
	var w io.Writer

	if output == "-" {
		w = os.Stdout
	} else {
		file, err := os.Create(output) //nolint:gosec // CLI tool creates user-specified output files
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()

		w = file
	}

	return wav.Encode(w, data, format)
}
