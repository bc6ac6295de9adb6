package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/lestrrat-go/xmlb"
	"github.com/lestrrat-go/xmlb/internal/cliutil"
)

type cmdopts struct {
	Format  string `long:"format" default:"xml"`
	Indent  string `long:"indent" default:"  "`
	Compact bool   `long:"compact"`
	Lenient bool   `long:"lenient"`
	Output  string `long:"output" short:"o"`
	Version bool   `long:"version"`
}

func main() {
	os.Exit(_main())
}

func showVersion() {
	fmt.Printf("xmlb-conv: using xmlb version %s\n", xmlb.Version)
}

func showUsage() {
	fmt.Printf(`Usage : xmlb-conv [options] files ...
	Read documents in JSON object notation and write them back out.
	With no file arguments the input is read from stdin.
	--format=xml|json|yaml|tree : output format (default xml)
	--indent=STR                : indent string for pretty output
	--compact                   : one line output, no indenting
	--lenient                   : skip well-formedness checks
	--output=FILE, -o FILE      : write to FILE instead of stdout
	--version                   : display the version of the library
`)
}

func _main() int {
	opts := cmdopts{}
	args, err := flags.ParseArgs(&opts, os.Args[1:])
	if err != nil {
		showUsage()
		return 1
	}

	if opts.Version {
		showVersion()
		return 0
	}

	inputCh := make(chan io.Reader)
	errCh := make(chan error, 1)
	switch {
	case len(args) > 0: // filename present
		go func() {
			defer close(inputCh)
			for _, f := range args {
				fh, err := os.Open(f)
				if err != nil {
					errCh <- err
					return
				}
				inputCh <- fh
			}
		}()
	case !cliutil.IsTty(os.Stdin.Fd()):
		go func() {
			defer close(inputCh)
			inputCh <- os.Stdin
		}()
	default:
		showUsage()
		return 1
	}

	out := io.Writer(os.Stdout)
	if opts.Output != "" {
		fh, err := os.Create(opts.Output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}
		defer fh.Close()
		out = fh
	}

	options := []xmlb.OutputOption{
		xmlb.WithIndent(opts.Indent),
	}
	if !opts.Compact {
		options = append(options, xmlb.WithPrettyPrint(true))
	}
	if opts.Lenient {
		options = append(options, xmlb.WithRequireWellFormed(false))
	}

	for in := range inputCh {
		doc, err := xmlb.FromJSON(in)
		if fh, ok := in.(*os.File); ok && fh != os.Stdin {
			fh.Close()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}
		if err := writeDoc(out, doc, opts.Format, options); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}
	}

	select {
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "%s", err)
		return 1
	default:
	}

	return 0
}

func writeDoc(out io.Writer, doc *xmlb.Document, format string, options []xmlb.OutputOption) error {
	switch format {
	case "xml":
		if err := doc.WriteXML(out, options...); err != nil {
			return err
		}
	case "json":
		if err := xmlb.NewJSONWriter(options...).Write(out, doc); err != nil {
			return err
		}
	case "yaml":
		return xmlb.NewYAMLWriter(options...).Write(out, doc)
	case "tree":
		_, err := io.WriteString(out, xmlb.DumpTree(doc))
		return err
	default:
		return fmt.Errorf("unknown output format %s", format)
	}
	_, err := fmt.Fprintln(out)
	return err
}
