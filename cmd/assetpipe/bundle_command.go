package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"assetpipe/internal/asset"
	"assetpipe/internal/pipeline"
)

type bundleResult struct {
	ID    string         `json:"id"`
	Kind  string         `json:"kind"`
	Tag   string         `json:"tag"`
	Stats pipeline.Stats `json:"stats"`
}

func newBundleCommand(ctx *commandContext) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "bundle <js|css> [file|-]",
		Short: "Combine a fragment of script or stylesheet tags into one published bundle",
		Long: `Read an HTML fragment from a file (or stdin when omitted or "-"),
publish the combined content of every referenced script or stylesheet,
and print the single tag that replaces the fragment.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := asset.ParseKind(args[0])
			if err != nil {
				return err
			}
			id = strings.TrimSpace(id)
			if id == "" {
				return fmt.Errorf("--id is required")
			}
			source := "-"
			if len(args) == 2 {
				source = args[1]
			}
			markup, err := readMarkup(cmd, source)
			if err != nil {
				return err
			}

			return ctx.withBuild(cmd.Context(), func(build *pipeline.Build) error {
				tag, err := build.Resolve(cmd.Context(), kind, id, markup)
				if err != nil {
					return err
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, bundleResult{
						ID:    id,
						Kind:  kind.String(),
						Tag:   tag,
						Stats: build.Stats(),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), tag)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Logical bundle id used in the published file name")
	return cmd
}

func readMarkup(cmd *cobra.Command, source string) (string, error) {
	if source == "" || source == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", source, err)
	}
	return string(data), nil
}
