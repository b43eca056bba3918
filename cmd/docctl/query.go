package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/substancehq/substance"
)

var queryContainer string

var queryCmd = &cobra.Command{
	Use:   "query <where>",
	Short: `select nodes by a boolean filter expression, e.g. "type=comment AND resolved=false"`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		where := args[0]

		if queryContainer != "" {
			recs, err := doc.doc.ContainerAnnotationsWhere(queryContainer, where)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(recs)
			}
			for _, r := range recs {
				fmt.Println(accentStyle.Render(r.ID), mutedStyle.Render("("+r.Type+")"))
			}
			return nil
		}

		now := time.Now()
		var matches []string
		for _, id := range doc.doc.Store().IDs() {
			n, _ := doc.doc.Store().Get(id)
			ok, err := substance.QueryNode(where, n, now)
			if err != nil {
				return err
			}
			if ok {
				matches = append(matches, id)
			}
		}
		if jsonOutput {
			return printJSON(matches)
		}
		for _, id := range matches {
			fmt.Println(accentStyle.Render(id))
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryContainer, "container", "", "restrict the query to container annotations of this container id")
	rootCmd.AddCommand(queryCmd)
}
