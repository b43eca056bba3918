package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "revert the most recent committed change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		chg, err := doc.doc.Undo()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(map[string]int{"ops_reverted": len(chg.Ops)})
		}
		fmt.Println(mutedStyle.Render(fmt.Sprintf("undid %d op(s)", len(chg.Ops))))
		return nil
	},
}

var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "reapply the most recently undone change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		chg, err := doc.doc.Redo()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(map[string]int{"ops_reapplied": len(chg.Ops)})
		}
		fmt.Println(mutedStyle.Render(fmt.Sprintf("redid %d op(s)", len(chg.Ops))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(undoCmd, redoCmd)
}
