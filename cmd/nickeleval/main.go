package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/LouLouLibs/NickelEval/export"
	"github.com/LouLouLibs/NickelEval/lang"
	"github.com/LouLouLibs/NickelEval/native"
	"github.com/LouLouLibs/NickelEval/value"
)

func main() {
	var (
		file        = flag.String("file", "", "Path to source file to evaluate")
		expr        = flag.String("e", "", "Expression to evaluate")
		format      = flag.String("format", "text", "Output format: text, json, yaml, toml, cbor, native")
		output      = flag.String("o", "", "Write output to file instead of stdout")
		verbose     = flag.Bool("v", false, "Verbose evaluation logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *file == "" && *expr == "" {
		fmt.Fprintln(os.Stderr, "Usage: nickeleval -file <config.ncl> [-format json] [-o out.json]")
		fmt.Fprintln(os.Stderr, "       nickeleval -e '<expression>' [-format json]")
		fmt.Fprintln(os.Stderr, "       nickeleval -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*file, *expr, *format, *output, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(file, expr, format, output string, verbose bool) error {
	src := expr
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		src = string(data)
	}

	log := zap.NewNop()
	if verbose {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer log.Sync()
	}

	interp := lang.New(lang.WithLogger(log))
	v, evalErr := interp.Eval(src)
	if evalErr != nil {
		return evalErr
	}

	out, err := render(v, format, output != "")
	if err != nil {
		return err
	}

	if output != "" {
		if werr := os.WriteFile(output, out, 0o644); werr != nil {
			return fmt.Errorf("write output: %w", werr)
		}
		return nil
	}
	fmt.Printf("%s\n", out)
	return nil
}

// render produces the output bytes for one format. Binary formats are
// hex-dumped when headed for a terminal instead of a file.
func render(v value.Value, format string, toFile bool) ([]byte, error) {
	switch format {
	case "text":
		return []byte(v.String()), nil
	case "json", "yaml", "toml":
		out, err := export.Export(export.Format(format), v)
		if err != nil {
			return nil, err
		}
		return out, nil
	case "cbor":
		out, err := export.Export(export.FormatCBOR, v)
		if err != nil {
			return nil, err
		}
		if !toFile {
			return []byte(hex.EncodeToString(out)), nil
		}
		return out, nil
	case "native":
		out, err := native.Encode(v)
		if err != nil {
			return nil, err
		}
		if !toFile {
			return []byte(hex.EncodeToString(out)), nil
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
