package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/substancehq/substance/internal/store"
	"github.com/substancehq/substance/internal/txn"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "delete a node, after confirming unless --force is given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if _, ok := doc.doc.Store().Get(id); !ok {
			return fmt.Errorf("node %q not found", id)
		}

		if !deleteForce {
			confirmed := false
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Delete node %s?", id)).
						Affirmative("Delete").
						Negative("Cancel").
						Value(&confirmed),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}
			if !confirmed {
				fmt.Println(mutedStyle.Render("cancelled"))
				return nil
			}
		}

		_, err := doc.doc.Transact(nil, map[string]any{"command": "delete", "id": id}, func(stage *txn.Stage) (map[string]any, error) {
			return nil, stage.Apply(&store.DeleteOp{ID: id})
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(map[string]string{"deleted": id})
		}
		fmt.Println(failStyle.Render("deleted"), id)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}
