package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	postpdf "github.com/alnah/go-postpdf"
	"github.com/alnah/go-postpdf/internal/fileutil"
	"github.com/alnah/go-postpdf/internal/postfile"
)

// Sentinel errors for CLI operations.
var (
	ErrInvalidFlag = errors.New("invalid flag value")
	ErrNoInput     = errors.New("no input file given")
	ErrReadInput   = errors.New("failed to read input")
	ErrWritePDF    = errors.New("failed to write PDF")
)

// run executes one generation from parsed arguments.
func run(args []string) error {
	flags, rest, err := parseFlags(args)
	if err != nil {
		return err
	}

	if flags.version {
		fmt.Println("postpdf", Version)
		return nil
	}

	if len(rest) != 1 {
		return fmt.Errorf("%w: expected exactly one input file", ErrNoInput)
	}

	input, err := buildInput(flags, rest[0])
	if err != nil {
		return err
	}

	var opts []postpdf.Option
	if flags.timeout > 0 {
		opts = append(opts, postpdf.WithTimeout(flags.timeout))
	}
	if flags.quality != 0 {
		opts = append(opts, postpdf.WithJPEGQuality(flags.quality))
	}
	if flags.verbose {
		opts = append(opts, postpdf.WithLogger(
			slog.New(slog.NewTextHandler(os.Stderr, nil))))
	}

	svc := postpdf.New(opts...)
	res, err := svc.Generate(context.Background(), input)
	if err != nil {
		return err
	}

	output := flags.output
	if output == "" {
		output = postpdf.SuggestedFileName(input.Title)
	}
	if err := os.WriteFile(output, res.PDF, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	if !flags.quiet {
		fmt.Printf("%s: %d page(s), %d image(s), %d bytes\n",
			output, res.Pages, res.Images, len(res.PDF))
	}
	return nil
}

// buildInput assembles the generation input from the input file and
// flags. Flags override post file fields.
func buildInput(flags *cliFlags, path string) (postpdf.Input, error) {
	var input postpdf.Input

	if fileutil.HasYAMLExtension(path) {
		post, err := postfile.Load(path)
		if err != nil {
			return input, err
		}
		input = postpdf.Input{
			Title:             post.Title,
			Authors:           post.Authors,
			Abstract:          post.Abstract,
			Body:              post.Body,
			Attachments:       post.Attachments,
			AttachmentBaseURL: post.AttachmentBaseURL,
		}
	} else {
		body, err := os.ReadFile(path) // #nosec G304 -- user-provided path
		if err != nil {
			return input, fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		input.Body = string(body)
		input.Title = fileutil.Stem(path)
	}

	if flags.title != "" {
		input.Title = flags.title
	}
	if flags.authors != "" {
		input.Authors = flags.authors
	}
	if flags.abstract != "" {
		input.Abstract = flags.abstract
	}
	if len(flags.attachments) > 0 {
		input.Attachments = flags.attachments
	}
	if flags.attachmentBase != "" {
		input.AttachmentBaseURL = flags.attachmentBase
	}
	return input, nil
}
