package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"address-console/internal/domains/address/export"
	"address-console/internal/domains/address/model"
	addressService "address-console/internal/domains/address/service"
)

// export [file]: mặc định ghi addresses-<lang>-<time>.xlsx trong thư mục hiện tại
func exportCmd(a *app) *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export matching addresses to an .xlsx file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := addressService.NewAddressService(a.repo, addressService.Config{DefaultLanguage: a.language})
			defer svc.EndSession(a.operator)

			result, err := svc.Export(a.context(cmd), a.operator, model.ListRequest{Language: a.language, Tags: tags})
			if err != nil {
				return err
			}

			name := export.FileName(result.Language, time.Now())
			if len(args) == 1 {
				name = args[0]
			}
			f, err := os.Create(name)
			if err != nil {
				return err
			}
			if err := export.WriteXLSX(f, result.Records); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "wrote %d of %d to %s\n", len(result.Records), result.TotalCount, name)
			if result.Truncated {
				fmt.Fprintf(a.out, "truncated at %d records\n", model.MaxExportRecords)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "match any of these tags")
	return cmd
}
