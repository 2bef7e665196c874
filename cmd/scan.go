/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/substantialcattle5/scour/internal/config"
	"github.com/substantialcattle5/scour/internal/dedup"
	"github.com/substantialcattle5/scour/internal/progress"
	"github.com/substantialcattle5/scour/internal/report"
	"github.com/substantialcattle5/scour/internal/scan"
	"github.com/substantialcattle5/scour/util"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a directory for duplicate files",
	Long: `Scan a directory tree for files with byte-identical content.

Files are fingerprinted with a content digest; files sharing a digest
form a duplicate group. The scan only reports - nothing is deleted.

Example:
  scour scan ~/Downloads
  scour scan --recursive --export report.txt ~/Downloads
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		result, err := runScan(cmd.Context(), cmd, root)
		if err != nil {
			return err
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		report.Render(cmd.OutOrStdout(), root, result.Groups, result.Summary, report.Options{Color: !quiet})
		printWarnings(cmd, result.Warnings)
		if result.Partial {
			fmt.Fprintln(cmd.OutOrStdout(), "\nScan was cancelled; results are partial.")
		}

		exportPath, _ := cmd.Flags().GetString("export")
		if exportPath != "" {
			if _, err := os.Stat(exportPath); err == nil {
				ok, err := util.ConfirmOverwrite(
					fmt.Sprintf("Report %s already exists. Overwrite?", exportPath),
					cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil || !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Export skipped.")
					return nil
				}
			}
			if err := report.Export(exportPath, root, result.Groups, result.Summary); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nReport exported: %s\n", exportPath)
		}

		return nil
	},
}

// runScan wires config and flags into a dedup manager and executes the
// scan. Shared by the scan and clean commands.
func runScan(ctx context.Context, cmd *cobra.Command, root string) (*dedup.Result, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	recursive, _ := cmd.Flags().GetBool("recursive")
	followSymlinks, _ := cmd.Flags().GetBool("follow-symlinks")
	skipHidden, _ := cmd.Flags().GetBool("skip-hidden")
	quiet, _ := cmd.Flags().GetBool("quiet")

	if algorithm, _ := cmd.Flags().GetString("algorithm"); algorithm != "" {
		cfg.HashAlgorithm = algorithm
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}

	manager, err := dedup.NewManager(dedup.Options{
		Scan: scan.Options{
			Recursive:      recursive,
			FollowSymlinks: followSymlinks,
			IncludeHidden:  !skipHidden,
		},
		Algorithm: cfg.HashAlgorithm,
		ChunkSize: cfg.ChunkSizeBytes(),
		Workers:   cfg.Workers,
	})
	if err != nil {
		return nil, err
	}
	manager.SetProgressReporter(progress.NewManager(progress.Options{Quiet: quiet}))

	result, err := manager.Scan(ctx, root)
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	return result, nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

func printWarnings(cmd *cobra.Command, warnings []scan.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d warning(s):\n", len(warnings))
	for _, warning := range warnings {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", warning)
	}
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("recursive", "r", true, "Recurse into subdirectories")
	cmd.Flags().Bool("follow-symlinks", false, "Follow symlinks to regular files (off by default to avoid double-counting)")
	cmd.Flags().Bool("skip-hidden", false, "Skip hidden files and directories")
	cmd.Flags().String("algorithm", "", "Hash algorithm: sha256, sha512, sha1, blake3")
	cmd.Flags().Int("workers", 0, "Fingerprint worker count (default: number of CPUs)")
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addScanFlags(scanCmd)
	scanCmd.Flags().String("export", "", "Export the report to a text file")
}
