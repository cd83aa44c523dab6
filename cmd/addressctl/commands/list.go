package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"address-console/internal/domains/address/model"
)

// list: một batch theo cursor, --cursor lấy từ output của lần trước
func listCmd(a *app) *cobra.Command {
	var (
		tags   []string
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List addresses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.repo.List(a.context(cmd), model.ListQuery{
				Language:  a.language,
				Tags:      tags,
				Limit:     limit,
				LastDocID: cursor,
			})
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(page)
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCITY\tTAGS")
			for _, r := range page.Records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Address.City, strings.Join(r.Tags, ","))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%d of %d", len(page.Records), page.TotalCount)
			if page.HasMore {
				fmt.Fprintf(a.out, ", next: --cursor %s", page.LastDocID)
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "match any of these tags")
	cmd.Flags().IntVar(&limit, "limit", 20, "batch size")
	cmd.Flags().StringVar(&cursor, "cursor", "", "lastDocId of the previous batch")
	return cmd
}
