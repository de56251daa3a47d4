package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

type imageOptions struct {
	aspect string
	out    string
}

func newImageCmd() *cobra.Command {
	var opts imageOptions

	cmd := &cobra.Command{
		Use:   "image <prompt...>",
		Short: "Generate images from a prompt and save them.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImage(cmd, opts, strings.Join(args, " "))
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.aspect, "ar", "", "aspect ratio, e.g. 1:1")
	f.StringVar(&opts.out, "out", "image", "output path prefix; an index and extension are appended")
	return cmd
}

func runImage(cmd *cobra.Command, opts imageOptions, imagePrompt string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if a.Config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.RequestTimeout)
		defer cancel()
	}

	images, err := a.Studio.GenerateImage(ctx, cliOwner, imagePrompt, opts.aspect)
	if err != nil {
		return fmt.Errorf("image: %w", err)
	}

	if dir := filepath.Dir(opts.out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	for i, uri := range images {
		mimeType, data, err := decodeDataURL(uri)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s-%d%s", opts.out, i+1, imageExt(mimeType))
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func decodeDataURL(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, errors.New("image is not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data URL")
	}
	mimeType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return "", nil, fmt.Errorf("unsupported data URL encoding %q", encoding)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}
	return mimeType, data, nil
}

func imageExt(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	if exts, _ := mime.ExtensionsByType(mimeType); len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
