package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.repo.Delete(a.context(cmd), a.language, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted %s\n", id)
			return nil
		},
	}
}
