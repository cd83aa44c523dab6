// Package commands implements addressctl, an operator CLI for the catalog API.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	addressRepo "address-console/internal/domains/address/repository"
	"address-console/internal/infrastructure/catalogapi"
)

const (
	envURL   = "CATALOG_API_URL"
	envToken = "CATALOG_TOKEN"
)

// app là state chung của mọi subcommand, được dựng trong PersistentPreRunE
type app struct {
	baseURL  string
	token    string
	language string
	timeout  time.Duration

	out      io.Writer
	client   *catalogapi.Client
	repo     addressRepo.RepositoryInterface
	asJSON   bool
	operator string
}

func Execute() error {
	return NewRootCommand(os.Stdout).Execute()
}

// NewRootCommand dựng cây lệnh, out nhận toàn bộ output
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:          "addressctl",
		Short:        "Operator CLI for the address catalog",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.baseURL == "" {
				a.baseURL = os.Getenv(envURL)
			}
			if a.baseURL == "" {
				return fmt.Errorf("catalog API URL required (--url or %s)", envURL)
			}
			if a.token == "" {
				a.token = os.Getenv(envToken)
			}
			if a.token == "" {
				return fmt.Errorf("token required (--token or %s)", envToken)
			}
			a.client = catalogapi.NewClient(a.baseURL, a.timeout)
			a.repo = addressRepo.NewHTTPRepository(a.client)
			return nil
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.baseURL, "url", "", "catalog API base URL (default $"+envURL+")")
	root.PersistentFlags().StringVar(&a.token, "token", "", "bearer token (default $"+envToken+")")
	root.PersistentFlags().StringVar(&a.language, "lang", "en", "catalog language")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 2*time.Minute, "request timeout")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print JSON instead of a table")
	root.PersistentFlags().StringVar(&a.operator, "operator", "addressctl", "operator id used for in-flight tracking")

	root.AddCommand(listCmd(a), importCmd(a), exportCmd(a), generateCmd(a), deleteCmd(a))
	return root
}

// context gắn token để catalogapi forward lên backend
func (a *app) context(cmd *cobra.Command) context.Context {
	return catalogapi.WithToken(cmd.Context(), a.token)
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
