package main

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all parsed command-line flags.
type cliFlags struct {
	title          string
	authors        string
	abstract       string
	attachments    []string
	attachmentBase string
	output         string
	timeout        time.Duration
	quality        int
	quiet          bool
	verbose        bool
	version        bool
}

// parseFlags parses command-line arguments. The remaining positional
// arguments (at most one: the input file) are returned alongside.
func parseFlags(args []string) (*cliFlags, []string, error) {
	f := &cliFlags{}

	fs := flag.NewFlagSet("postpdf", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	fs.StringVar(&f.title, "title", "", "post title (overrides the post file)")
	fs.StringVar(&f.authors, "authors", "", "author line")
	fs.StringVar(&f.abstract, "abstract", "", "abstract text")
	fs.StringArrayVar(&f.attachments, "attachment", nil, "attachment manifest entry (repeatable)")
	fs.StringVar(&f.attachmentBase, "attachment-base", "", "base URL for resolving relative image references")
	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (default: slug of the title)")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-fetch image download timeout (default 30s)")
	fs.IntVar(&f.quality, "quality", 0, "JPEG re-encode quality 1-100 (default 85)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "suppress the summary line")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log degraded images and build details to stderr")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}

	if f.quality != 0 && (f.quality < 1 || f.quality > 100) {
		return nil, nil, fmt.Errorf("%w: --quality must be between 1 and 100", ErrInvalidFlag)
	}
	if f.timeout < 0 {
		return nil, nil, fmt.Errorf("%w: --timeout must be positive", ErrInvalidFlag)
	}

	return f, fs.Args(), nil
}

// printUsage writes the flag summary and invocation forms.
func printUsage(fs *flag.FlagSet) {
	fmt.Fprintln(fs.Output(), `postpdf - render a research post as a PDF

Usage:
  postpdf [flags] <post.yaml>
  postpdf [flags] <body.md>

A YAML post file supplies title, authors, abstract, body and the
attachment manifest; a markdown input is treated as the body, with the
remaining fields taken from flags.

Flags:`)
	fs.PrintDefaults()
}
