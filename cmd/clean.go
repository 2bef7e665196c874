/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/substantialcattle5/scour/internal/constants"
	"github.com/substantialcattle5/scour/internal/report"
	"github.com/substantialcattle5/scour/internal/resolve"
	"github.com/substantialcattle5/scour/internal/stats"
	"github.com/substantialcattle5/scour/internal/trash"
	"github.com/substantialcattle5/scour/util"
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove duplicate files, keeping one copy per group",
	Long: `Scan a directory for duplicates, plan which copies to remove under a
retention policy, and execute the removals.

The plan is shown before anything is touched. Removed files are moved
to a recoverable trash area unless --permanent is given; a trashed run
can be undone with 'scour restore'.

Example:
  scour clean ~/Downloads                 # keep oldest copy, trash the rest
  scour clean --keep newest ~/Downloads   # keep newest copy
  scour clean --dry-run ~/Downloads       # show the plan, delete nothing
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		keep, _ := cmd.Flags().GetString("keep")
		if keep == "" {
			keep = cfg.KeepPolicy
		}
		policy, err := resolve.ParsePolicy(keep)
		if err != nil {
			return err
		}

		result, err := runScan(cmd.Context(), cmd, root)
		if err != nil {
			return err
		}
		if result.Partial {
			return fmt.Errorf("scan was cancelled; refusing to delete from a partial scan")
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		out := cmd.OutOrStdout()
		report.RenderSummary(out, result.Summary)
		printWarnings(cmd, result.Warnings)

		if len(result.Groups) == 0 {
			fmt.Fprintln(out, "\nNo duplicates to clean.")
			return nil
		}

		plans, err := resolve.Plan(result.Groups, policy)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\nPlan (keep %s copy per group):\n", policy)
		for _, plan := range plans {
			fmt.Fprintf(out, "  keep   %s\n", plan.Survivor.Path)
			for _, candidate := range plan.Remove {
				fmt.Fprintf(out, "  remove %s\n", candidate.Path)
			}
		}
		fmt.Fprintf(out, "\n%d file(s) to remove, %s to recover.\n",
			result.Summary.DuplicateFiles, util.HumanReadableSize(result.Summary.WastedBytes))

		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			fmt.Fprintln(out, "Dry run: no files were deleted.")
			return nil
		}

		permanent, _ := cmd.Flags().GetBool("permanent")
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			label := "Move these files to trash"
			if permanent {
				label = "PERMANENTLY delete these files"
			}
			confirmPrompt := promptui.Prompt{
				Label:     label,
				IsConfirm: true,
			}
			if _, err := confirmPrompt.Run(); err != nil {
				fmt.Fprintln(out, "Deletion cancelled. Duplicates preserved.")
				return nil
			}
		}

		var backend resolve.DeletionBackend
		if permanent {
			backend = trash.Permanent{}
		} else {
			trashDir, _ := cmd.Flags().GetString("trash-dir")
			if trashDir == "" {
				trashDir = cfg.TrashDir
			}
			if trashDir == "" {
				trashDir = filepath.Join(root, constants.TrashDirName)
			}
			session, err := trash.NewSession(trashDir)
			if err != nil {
				return err
			}
			backend = session
			fmt.Fprintf(out, "\nTrash session: %s\n", session.ID())
		}

		parallelism, _ := cmd.Flags().GetInt("workers")
		outcomes := resolve.Apply(cmd.Context(), plans, backend, parallelism)
		runStats := stats.Summarize(result.Summary, outcomes)

		fmt.Fprintln(out)
		report.RenderOutcomes(out, outcomes, runStats, report.Options{Color: !quiet})
		if !permanent && runStats.RemovedCount > 0 {
			fmt.Fprintln(out, "Run 'scour restore' to undo.")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	addScanFlags(cleanCmd)
	cleanCmd.Flags().String("keep", "", "Retention policy: oldest or newest (default oldest)")
	cleanCmd.Flags().Bool("dry-run", false, "Show the plan without deleting anything")
	cleanCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	cleanCmd.Flags().Bool("permanent", false, "Delete permanently instead of moving to trash")
	cleanCmd.Flags().String("trash-dir", "", "Trash directory (default <path>/.scour-trash)")
}
