// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/recordlog/cmd/recordlog/cli"
	"github.com/bureau-foundation/recordlog/lib/digest"
	"github.com/bureau-foundation/recordlog/lib/record"
	"github.com/bureau-foundation/recordlog/lib/writer"
)

const defaultChunkSize = 64 << 10

type writeParams struct {
	settings
	feature   string
	author    string
	body      string
	file      string
	stream    bool
	chunkSize int
}

func writeCommand(s streams) *cli.Command {
	var params writeParams

	return &cli.Command{
		Name:    "write",
		Summary: "Append one record and print its key",
		Description: `Append one record to the log and print its key.

The body comes from --body, from --file (use "-" for stdin), or from
stdin when neither is given. With --stream the body is fed through a
streaming session in --chunk-size pieces instead of being read into
memory first; the key and the rendered record are the same either way.`,
		Usage: "recordlog write --feature F --author A [--body S | --file P] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("write", pflag.ContinueOnError)
			params.settings.register(flagSet)
			flagSet.StringVar(&params.feature, "feature", "", "feature tag (required)")
			flagSet.StringVar(&params.author, "author", "", "author tag (required)")
			flagSet.StringVar(&params.body, "body", "", "record body")
			flagSet.StringVar(&params.file, "file", "", `read the body from a file ("-" for stdin)`)
			flagSet.BoolVar(&params.stream, "stream", false, "stream the body in chunks")
			flagSet.IntVar(&params.chunkSize, "chunk-size", defaultChunkSize, "chunk size in bytes for --stream")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Record a short body",
				Command:     "recordlog write --feature featA --author authX --body hello",
			},
			{
				Description: "Record command output, streamed",
				Command:     "make test 2>&1 | recordlog write --feature tests --author ci --stream",
			},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			return runWrite(s, &params)
		},
	}
}

func runWrite(s streams, params *writeParams) error {
	if params.feature == "" || params.author == "" {
		return fmt.Errorf("--feature and --author are required")
	}
	if params.body != "" && params.file != "" {
		return fmt.Errorf("--body and --file are mutually exclusive")
	}
	if params.chunkSize <= 0 {
		return fmt.Errorf("--chunk-size must be positive, got %d", params.chunkSize)
	}

	cfg, err := params.load()
	if err != nil {
		return err
	}
	logger := s.logger.With("command", "write", "log", cfg.Log.Path)
	w, err := newWriter(cfg, logger)
	if err != nil {
		return err
	}

	input, closeInput, err := openBody(s, params)
	if err != nil {
		return err
	}
	defer closeInput()

	feature, author := record.Tag(params.feature), record.Tag(params.author)
	var key digest.Hash
	if params.stream {
		key, err = streamBody(w, feature, author, input, params.chunkSize)
	} else {
		var content []byte
		content, err = io.ReadAll(input)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
		key, err = w.Write(feature, author, content)
	}
	if err != nil {
		var failure *writer.SinkError
		if errors.As(err, &failure) {
			logger.Error("record not persisted", "key", failure.Key.String(), "error", failure.Err)
		}
		return err
	}

	fmt.Fprintln(s.out, key)
	return nil
}

// openBody returns the reader for the record body and a function that
// closes it.
func openBody(s streams, params *writeParams) (io.Reader, func(), error) {
	noop := func() {}
	switch {
	case params.body != "":
		return strings.NewReader(params.body), noop, nil
	case params.file != "" && params.file != "-":
		file, err := os.Open(params.file)
		if err != nil {
			return nil, nil, fmt.Errorf("opening body: %w", err)
		}
		return file, func() { file.Close() }, nil
	default:
		return s.in, noop, nil
	}
}

func streamBody(w *writer.Writer, feature, author record.Tag, input io.Reader, chunkSize int) (digest.Hash, error) {
	session, err := w.Stream(feature, author)
	if err != nil {
		return digest.Hash{}, err
	}
	defer session.Close()

	chunk := make([]byte, chunkSize)
	for {
		count, readErr := io.ReadFull(input, chunk)
		if count > 0 {
			if err := session.Append(chunk[:count]); err != nil {
				return digest.Hash{}, err
			}
		}
		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return digest.Hash{}, fmt.Errorf("reading body: %w", readErr)
		}
	}
	return session.Seal()
}
