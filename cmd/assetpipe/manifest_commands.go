package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"assetpipe/internal/cdn"
	"assetpipe/internal/config"
	"assetpipe/internal/manifest"
)

func newManifestCommand(ctx *commandContext) *cobra.Command {
	manifestCmd := &cobra.Command{
		Use:   "manifest",
		Short: "Inspect and prune the published artifact manifest",
	}

	manifestCmd.AddCommand(newManifestListCommand(ctx))
	manifestCmd.AddCommand(newManifestPruneCommand(ctx))

	return manifestCmd
}

func newManifestListCommand(ctx *commandContext) *cobra.Command {
	var contextDir string
	var assetID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			filter := manifest.Filter{
				ContextDir: strings.Trim(strings.TrimSpace(contextDir), "/"),
				AssetID:    strings.TrimSpace(assetID),
			}
			var artifacts []manifest.Artifact
			err = withManifest(cmd.Context(), cfg, func(store *manifest.Store) error {
				var listErr error
				artifacts, listErr = store.List(cmd.Context(), filter)
				return listErr
			})
			if err != nil {
				return err
			}

			if ctx.jsonMode() {
				if artifacts == nil {
					artifacts = []manifest.Artifact{}
				}
				return writeJSON(cmd, artifacts)
			}

			out := cmd.OutOrStdout()
			if len(artifacts) == 0 {
				fmt.Fprintln(out, "No artifacts recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(out, artifactHeaders(), artifactRows(artifacts), artifactAligns()))
			return nil
		},
	}

	cmd.Flags().StringVar(&contextDir, "context", "", "Only list artifacts in this context folder")
	cmd.Flags().StringVar(&assetID, "id", "", "Only list artifacts with this asset id")
	return cmd
}

func newManifestPruneCommand(ctx *commandContext) *cobra.Command {
	var keep string
	var deleteFiles bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Forget artifacts published under other versions",
		Long: `Remove manifest rows whose version differs from the configured cdn.version
(or --keep). With --delete-files the published files and their sidecars are
removed from the output directory too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			keepVersion := cfg.CDN.Version
			if cmd.Flags().Changed("keep") {
				keepVersion = strings.TrimSpace(keep)
			}

			var removed []manifest.Artifact
			err = withManifest(cmd.Context(), cfg, func(store *manifest.Store) error {
				var pruneErr error
				removed, pruneErr = store.Prune(cmd.Context(), keepVersion)
				return pruneErr
			})
			if err != nil {
				return err
			}

			files := 0
			if deleteFiles {
				for _, a := range removed {
					n, err := cdn.Remove(cfg.CDN.OutDir, a.RelPath)
					files += n
					if err != nil {
						return err
					}
				}
			}

			if ctx.jsonMode() {
				if removed == nil {
					removed = []manifest.Artifact{}
				}
				return writeJSON(cmd, map[string]any{
					"kept_version":  keepVersion,
					"removed":       removed,
					"files_deleted": files,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Pruned %d artifact(s) not at version %q\n", len(removed), keepVersion)
			if deleteFiles {
				fmt.Fprintf(out, "Deleted %d file(s) from %s\n", files, cfg.CDN.OutDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&keep, "keep", "", "Version to keep (defaults to cdn.version)")
	cmd.Flags().BoolVar(&deleteFiles, "delete-files", false, "Also delete pruned files from the output directory")
	return cmd
}

func withManifest(ctx context.Context, cfg *config.Config, fn func(*manifest.Store) error) error {
	path := strings.TrimSpace(cfg.CDN.ManifestPath)
	if path == "" {
		return fmt.Errorf("no manifest configured (set cdn.manifest_path)")
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no manifest at %s (publish something first)", path)
		}
		return fmt.Errorf("check manifest: %w", err)
	}
	store, err := manifest.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func artifactHeaders() []string {
	return []string{"Context", "Asset", "Version", "Path", "Size", "Published"}
}

func artifactAligns() []columnAlignment {
	return []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
}

func artifactRows(artifacts []manifest.Artifact) [][]string {
	title := cases.Title(language.English)
	rows := make([][]string, 0, len(artifacts))
	for _, a := range artifacts {
		version := a.Version
		if version == "" {
			version = "-"
		}
		rows = append(rows, []string{
			title.String(a.ContextDir),
			a.AssetID,
			version,
			a.RelPath,
			humanize.Bytes(uint64(a.Size)),
			humanize.Time(a.LastPublishedAt),
		})
	}
	return rows
}
