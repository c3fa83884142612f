package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/kotoba/internal/admin"
	"github.com/mrlokans/kotoba/internal/entrypoint"
	"github.com/mrlokans/kotoba/internal/payload"
)

func newVocabCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Vocabulary maintenance",
	}
	cmd.AddCommand(newVocabRenumberCommand(r))
	return cmd
}

func newVocabRenumberCommand(r *runner) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "renumber SLUG | --all",
		Short: "Renumber lesson vocabulary to 1..N keeping the current order",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return errors.New("pass either a slug or --all")
			}
			if !all && len(args) != 1 {
				return errors.New("a lesson slug is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(app *entrypoint.App) error {
				if all {
					result, err := app.Admin.RenumberAll(cmd.Context())
					if err != nil {
						return err
					}
					cmd.Printf("Renumbered %d lessons, %d entries written\n", result.Lessons, result.Written)
					if len(result.Failed) > 0 {
						cmd.Printf("Failed: %s\n", strings.Join(result.Failed, ", "))
					}
					return nil
				}

				written, err := app.Admin.RenumberVocabulary(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				cmd.Printf("Renumbered lesson %s, %d entries written\n", args[0], written)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "renumber every lesson")
	return cmd
}

func newSeedCommand(r *runner) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Add the built-in lesson catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := payload.Catalog()
			if err != nil {
				return err
			}
			return r.withApp(func(app *entrypoint.App) error {
				result, err := app.Admin.SeedCatalog(cmd.Context(), catalog, admin.AddOptions{Replace: replace})
				if err != nil {
					return err
				}
				cmd.Printf("Seeded %d lessons, skipped %d\n", len(result.Created), len(result.Skipped))
				if len(result.Failed) > 0 {
					cmd.Printf("Failed: %s\n", strings.Join(result.Failed, ", "))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "recreate lessons that already exist")
	return cmd
}
