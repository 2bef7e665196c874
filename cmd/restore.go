/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/substantialcattle5/scour/internal/constants"
	"github.com/substantialcattle5/scour/internal/trash"
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore [session-id]",
	Short: "Restore files from a trash session",
	Long: `Move files from a trash session back to their original locations.

Without arguments the most recent session is restored. Use --list to
see available sessions.

Example:
  scour restore --list
  scour restore
  scour restore 20250101T120000Z-1a2b3c4d
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		trashDir, _ := cmd.Flags().GetString("trash-dir")
		if trashDir == "" {
			root, _ := cmd.Flags().GetString("path")
			if root == "" {
				root = "."
			}
			trashDir = filepath.Join(root, constants.TrashDirName)
		}
		out := cmd.OutOrStdout()

		if list, _ := cmd.Flags().GetBool("list"); list {
			sessions, err := trash.Sessions(trashDir)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No trash sessions found.")
				return nil
			}
			for _, session := range sessions {
				fmt.Fprintf(out, "%s  %d file(s)\n", session.SessionID, len(session.Entries))
			}
			return nil
		}

		sessionID := ""
		if len(args) == 1 {
			sessionID = args[0]
		} else {
			latest, err := trash.LatestSessionID(trashDir)
			if err != nil {
				if errors.Is(err, trash.ErrNoSession) {
					return fmt.Errorf("no trash session to restore in %s", trashDir)
				}
				return err
			}
			sessionID = latest
		}

		restored, err := trash.Restore(trashDir, sessionID)
		if errors.Is(err, trash.ErrNoSession) {
			return fmt.Errorf("trash session not found: %s", sessionID)
		}
		fmt.Fprintf(out, "Restored %d file(s) from session %s.\n", restored, sessionID)
		if err != nil {
			fmt.Fprintf(out, "Some files could not be restored:\n%v\n", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().Bool("list", false, "List available trash sessions")
	restoreCmd.Flags().String("path", "", "Scanned directory whose trash to use (default .)")
	restoreCmd.Flags().String("trash-dir", "", "Trash directory (default <path>/.scour-trash)")
}
