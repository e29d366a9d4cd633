package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"assetpipe/internal/pipeline"
)

type rewriteResult struct {
	Source string `json:"source"`
	Result string `json:"result"`
}

func newRewriteCommand(ctx *commandContext) *cobra.Command {
	var base string
	var cssURL bool

	cmd := &cobra.Command{
		Use:   "rewrite <src>...",
		Short: "Publish single assets and print their CDN URLs",
		Long: `Publish each referenced asset and print the CDN URL that replaces it.

Without --base, references resolve against the site source directory and a
leading base_url is stripped. With --base, relative references resolve
against that file or directory, the way url() references inside a
stylesheet do.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base = strings.TrimSpace(base)
			return ctx.withBuild(cmd.Context(), func(build *pipeline.Build) error {
				results := make([]rewriteResult, 0, len(args))
				for _, src := range args {
					out, err := rewriteOne(cmd, build, src, base, cssURL)
					if err != nil {
						return err
					}
					results = append(results, rewriteResult{Source: src, Result: out})
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, results)
				}
				for _, r := range results {
					fmt.Fprintln(cmd.OutOrStdout(), r.Result)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "File or directory relative references resolve against")
	cmd.Flags().BoolVar(&cssURL, "url", false, "Print a CSS url() expression instead of a bare URL")
	return cmd
}

func rewriteOne(cmd *cobra.Command, build *pipeline.Build, src, base string, cssURL bool) (string, error) {
	ctx := cmd.Context()
	switch {
	case base != "" && cssURL:
		return build.StylesheetURL(ctx, src, base)
	case base != "":
		return build.Rewrite(ctx, src, base)
	}
	out, err := build.CDN(ctx, src)
	if err != nil {
		return "", err
	}
	if cssURL {
		return "url(" + out + ")", nil
	}
	return out, nil
}
