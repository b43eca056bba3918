package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/substancehq/substance/internal/container"
	"github.com/substancehq/substance/internal/store"
	"github.com/substancehq/substance/internal/txn"
)

var (
	createParent string
	createText   string
	createPos    int
)

var createCmd = &cobra.Command{
	Use:   "create <type>",
	Short: "create a node and, when --parent is given, show it in that container's child list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodeType := args[0]
		id := uuid.NewString()

		_, err := doc.doc.Transact(nil, map[string]any{"command": "create", "type": nodeType}, func(stage *txn.Stage) (map[string]any, error) {
			n := store.NewNode(id, nodeType)
			if createText != "" {
				n.Properties["content"] = createText
			}
			if err := stage.Apply(&store.CreateOp{Node: n}); err != nil {
				return nil, err
			}
			if createParent != "" {
				parent, ok := stage.Store().Get(createParent)
				if !ok {
					return nil, fmt.Errorf("parent %q not found", createParent)
				}
				if err := stage.Apply(container.Show(parent, id, createPos)); err != nil {
					return nil, err
				}
			}
			return nil, nil
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(map[string]string{"id": id, "type": nodeType})
		}
		fmt.Println(accentStyle.Render(id), mutedStyle.Render("("+nodeType+")"))
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createParent, "parent", "", "container node id to show the new node in")
	createCmd.Flags().StringVar(&createText, "text", "", "initial content for a text node")
	createCmd.Flags().IntVar(&createPos, "pos", -1, "position in the parent's child list (-1 appends)")
	rootCmd.AddCommand(createCmd)
}
