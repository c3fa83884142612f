package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mrlokans/kotoba/internal/admin"
	"github.com/mrlokans/kotoba/internal/entrypoint"
	"github.com/mrlokans/kotoba/internal/payload"
)

func newLessonCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lesson",
		Short: "Author and manage lessons",
	}
	cmd.AddCommand(
		newLessonAddCommand(r),
		newLessonUpdateCommand(r),
		newLessonDeleteCommand(r),
		newLessonListCommand(r),
		newLessonLockCommand(r, true),
		newLessonLockCommand(r, false),
	)
	return cmd
}

func newLessonAddCommand(r *runner) *cobra.Command {
	var (
		file    string
		replace bool
	)
	cmd := &cobra.Command{
		Use:   "add -f FILE",
		Short: "Create a lesson from a YAML, JSON or XLSX file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := payload.Load(file)
			if err != nil {
				return err
			}
			return r.withApp(func(app *entrypoint.App) error {
				lesson, err := app.Admin.AddLesson(cmd.Context(), p, admin.AddOptions{Replace: replace})
				if err != nil {
					return err
				}
				cmd.Printf("Created lesson %s (#%d) with %d vocab and %d kanji\n",
					lesson.Slug, lesson.Number, len(p.Vocab), len(p.Kanji))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "lesson file (.yaml, .yml, .json or .xlsx)")
	cmd.Flags().BoolVar(&replace, "replace", false, "delete an existing lesson with the same slug first")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newLessonUpdateCommand(r *runner) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update -f FILE",
		Short: "Update an existing lesson from a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := payload.Load(file)
			if err != nil {
				return err
			}
			return r.withApp(func(app *entrypoint.App) error {
				lesson, err := app.Admin.UpdateLesson(cmd.Context(), p)
				if err != nil {
					return err
				}
				cmd.Printf("Updated lesson %s\n", lesson.Slug)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "lesson file (.yaml, .yml, .json or .xlsx)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newLessonDeleteCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete SLUG",
		Short: "Delete a lesson with its vocabulary, kanji and review state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]
			return r.withApp(func(app *entrypoint.App) error {
				deleted, err := app.Admin.DeleteLesson(cmd.Context(), slug)
				if err != nil {
					return err
				}
				if !deleted {
					cmd.Printf("Lesson %s not found\n", slug)
					return nil
				}
				cmd.Printf("Deleted lesson %s\n", slug)
				return nil
			})
		},
	}
}

func newLessonListCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List lessons in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(app *entrypoint.App) error {
				lessons, err := app.Lessons.GetLessons(cmd.Context())
				if err != nil {
					return err
				}
				if len(lessons) == 0 {
					cmd.Println("No lessons")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "#\tSLUG\tTITLE\tLOCKED")
				for _, l := range lessons {
					fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", l.Number, l.Slug, l.Title, l.Locked)
				}
				return w.Flush()
			})
		},
	}
}

func newLessonLockCommand(r *runner, locked bool) *cobra.Command {
	use, short, verb := "unlock SLUG", "Unlock a lesson", "Unlocked"
	if locked {
		use, short, verb = "lock SLUG", "Lock a lesson", "Locked"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(app *entrypoint.App) error {
				if err := app.Admin.SetLocked(cmd.Context(), args[0], locked); err != nil {
					return err
				}
				cmd.Printf("%s lesson %s\n", verb, args[0])
				return nil
			})
		},
	}
}
