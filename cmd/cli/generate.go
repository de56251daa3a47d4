package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"prompt-studio/internal/framework"
	"prompt-studio/internal/prompt"
	"prompt-studio/internal/studio"
)

type generateOptions struct {
	framework  string
	concise    bool
	coPilot    bool
	aspect     string
	shots      []string
	mood       string
	format     string
	copy       bool
	styleImage string
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate <subject...>",
		Short: "Generate a structured prompt for a subject.",
		Long: `Generate sends the subject to the model with the chosen framework and
prints the parsed sections in the requested export format.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, strings.Join(args, " "))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.framework, "framework", "f", string(framework.Cinematic), "framework id")
	f.BoolVar(&opts.concise, "concise", false, "single dense prompt")
	f.BoolVar(&opts.coPilot, "copilot", false, "structured director notes")
	f.StringVar(&opts.aspect, "ar", "", "aspect ratio, e.g. 16:9")
	f.StringSliceVar(&opts.shots, "shot", nil, "camera shot keys (repeatable or comma separated)")
	f.StringVar(&opts.mood, "mood", "", "audio mood key")
	f.StringVarP(&opts.format, "format", "o", "text", "export format: text, markdown, json or yaml")
	f.BoolVarP(&opts.copy, "copy", "c", false, "copy the export to the clipboard")
	f.StringVar(&opts.styleImage, "style-image", "", "path to a style reference image")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts generateOptions, subject string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	var style *studio.Image
	if opts.styleImage != "" {
		img, err := readImageFile(a.Studio, opts.styleImage)
		if err != nil {
			return err
		}
		style = &img
	}

	req := prompt.Request{
		Framework:   framework.ID(strings.ToLower(opts.framework)),
		Subject:     subject,
		AspectRatio: opts.aspect,
		Concise:     opts.concise,
		CoPilot:     opts.coPilot,
		AudioMood:   opts.mood,
		CameraShots: opts.shots,
	}

	ctx := cmd.Context()
	if a.Config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.RequestTimeout)
		defer cancel()
	}

	res, err := a.Studio.Generate(ctx, cliOwner, req, style)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	out, err := studio.ExportResult(res, opts.format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	if opts.copy {
		copyToClipboard(cmd, out)
	}
	return nil
}

// copyToClipboard only warns on failure; the export has already been printed.
func copyToClipboard(cmd *cobra.Command, text string) {
	if err := clipboard.WriteAll(text); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: copy to clipboard: %v\n", err)
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "copied to clipboard")
}

// readImageFile checks the file size against the configured limit before
// reading it, then checks the sniffed type.
func readImageFile(svc *studio.Service, path string) (studio.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return studio.Image{}, fmt.Errorf("read image: %w", err)
	}
	if err := svc.ValidateImage("image/jpeg", info.Size()); err != nil {
		return studio.Image{}, fmt.Errorf("%s: %s", path, studio.UserMessage(err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return studio.Image{}, fmt.Errorf("read image: %w", err)
	}
	mimeType := http.DetectContentType(data)
	if err := svc.ValidateImage(mimeType, int64(len(data))); err != nil {
		return studio.Image{}, fmt.Errorf("%s: %s", path, studio.UserMessage(err))
	}
	return studio.Image{MimeType: mimeType, Data: data}, nil
}
