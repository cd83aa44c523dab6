package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"address-console/internal/domains/generation/generator"
	"address-console/internal/domains/generation/model"
	"address-console/internal/domains/generation/repository"
	"address-console/internal/domains/generation/service"
)

const defaultModel = "gemini-2.5-flash"

func generateCmd(a *app) *cobra.Command {
	var (
		req  model.GenerateRequest
		save bool
	)

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate candidate addresses with the configured LLM",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Prompt = strings.Join(args, " ")
			req.Language = a.language

			svc := service.NewGenerationService(
				generator.NewAPIGenerator(a.client),
				repository.NewHTTPPromptRepository(a.client),
				service.Config{DefaultModel: defaultModel, DefaultEffort: model.EffortMedium, DefaultLanguage: a.language},
			)

			ctx := a.context(cmd)
			result, err := svc.Generate(ctx, a.operator, req)
			if err != nil {
				return err
			}

			if save {
				for i, candidate := range result.Addresses {
					// id của candidate là tạm thời, backend cấp id thật
					candidate.ID = ""
					id, err := a.repo.Create(ctx, a.language, candidate)
					if err != nil {
						return fmt.Errorf("save candidate %d: %w", i, err)
					}
					result.Addresses[i].ID = id
				}
			}

			if a.asJSON {
				return a.printJSON(result)
			}
			for _, candidate := range result.Addresses {
				fmt.Fprintf(a.out, "%s  %s, %s (%s)\n", candidate.ID, candidate.Name, candidate.Address.City, strings.Join(candidate.Tags, ","))
			}
			if save {
				fmt.Fprintf(a.out, "saved %d\n", len(result.Addresses))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&req.Count, "count", 0, "number of candidates (default 5)")
	cmd.Flags().StringVar(&req.Model, "model", "", "model name (default "+defaultModel+")")
	cmd.Flags().StringVar(&req.ReasoningEffort, "effort", "", "reasoning effort: low, medium, high")
	cmd.Flags().StringVar(&req.SystemPrompt, "system-prompt", "", "override the stored system prompt")
	cmd.Flags().BoolVar(&save, "save", false, "create the generated candidates in the catalog")
	return cmd
}
