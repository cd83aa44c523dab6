package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	addressService "address-console/internal/domains/address/service"
)

// import <file>: file là JSON array; "-" đọc từ stdin
func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create addresses from a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			svc := addressService.NewAddressService(a.repo, addressService.Config{DefaultLanguage: a.language})
			defer svc.EndSession(a.operator)

			outcome, err := svc.Import(a.context(cmd), a.operator, a.language, raw)
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(outcome.ImportResult)
			}

			fmt.Fprintf(a.out, "created %d\n", len(outcome.Created))
			for _, e := range outcome.Errors {
				fmt.Fprintf(a.out, "  item %d: %s\n", e.Index, e.Message)
			}
			if len(outcome.Errors) > 0 {
				return fmt.Errorf("%d item(s) failed", len(outcome.Errors))
			}
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return raw, nil
}
