package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"prompt-studio/internal/framework"
	"prompt-studio/internal/sections"
)

type parseOptions struct {
	framework string
	mode      string
	format    string
}

func newParseCmd() *cobra.Command {
	var opts parseOptions

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Split a saved model response into sections.",
		Long: `Parse reads a raw response from a file, or stdin when the argument is "-"
or missing, and prints it in the requested export format. No network access
is needed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runParse(cmd, opts, path)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.framework, "framework", "f", "", "framework whose section titles are matched")
	f.StringVarP(&opts.mode, "mode", "m", "", "text or json; overrides the framework mode")
	f.StringVarP(&opts.format, "format", "o", "text", "export format: text, markdown, json or yaml")
	return cmd
}

func runParse(cmd *cobra.Command, opts parseOptions, path string) error {
	mode := sections.ModeText
	var titles []string
	if opts.framework != "" {
		fw, ok := framework.Lookup(opts.framework)
		if !ok {
			return fmt.Errorf("unknown framework %q", opts.framework)
		}
		mode = fw.Mode
		titles = fw.Titles()
	}
	if opts.mode != "" {
		m, ok := sections.ParseMode(opts.mode)
		if !ok {
			return fmt.Errorf("unknown mode %q (want text or json)", opts.mode)
		}
		mode = m
	}

	format, err := sections.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	raw, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	out, err := sections.Export(sections.Parse(raw, mode, titles), raw, format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
