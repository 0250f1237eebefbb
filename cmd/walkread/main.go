package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"walkread/internal/bootstrap"
	catalogdto "walkread/internal/modules/catalog/dto"
	progressdto "walkread/internal/modules/progress/dto"
	"walkread/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataPath string

	root := &cobra.Command{
		Use:           "walkread",
		Short:         "Walk to unlock your books",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataPath, "data", ".", "data directory")

	root.AddCommand(newTUICmd(&dataPath))
	root.AddCommand(newCatalogCmd(&dataPath))
	root.AddCommand(newReadCmd(&dataPath))
	root.AddCommand(newSyncCmd(&dataPath))
	root.AddCommand(newStepsCmd(&dataPath))
	root.AddCommand(newProviderCmd(&dataPath))
	return root
}

func loadApp(dataPath string) (*bootstrap.App, error) {
	cfg, err := config.New(dataPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(dataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run walkread terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			if err := app.SyncCatalog(context.Background()); err != nil {
				return err
			}
			return bootstrap.RunTUI(*dataPath, app)
		},
	}
}

func newCatalogCmd(dataPath *string) *cobra.Command {
	catalog := &cobra.Command{Use: "catalog", Short: "Manage the book shelf"}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate an empty shelf with starter books",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			count, err := app.CatalogCLI.Seed(context.Background())
			if err != nil {
				return err
			}
			if count == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "shelf already has books, nothing seeded")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d starter books\n", count)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List books on the shelf",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			books, err := app.CatalogCLI.ListBooks(context.Background())
			if err != nil {
				return err
			}
			for _, book := range books {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s — %s (%d chars)\n",
					book.ID, book.Title, book.Author, book.TotalCharacters)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <book-id>",
		Short: "Show one book with its unlock progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			ctx := context.Background()
			book, err := app.CatalogCLI.GetBook(ctx, args[0])
			if err != nil {
				return err
			}
			printBook(cmd, book)
			if prog, err := app.ProgressCLI.BookProgress(ctx, book.ID); err == nil {
				printProgress(cmd, prog)
			}
			return nil
		},
	}

	var title, author, genre, description string
	var year int
	importCmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import a text or PDF file as a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			book, err := app.CatalogCLI.ImportFile(context.Background(), catalogdto.ImportInput{
				Path:        args[0],
				Title:       title,
				Author:      author,
				Year:        year,
				Genre:       genre,
				Description: description,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%s), %d characters\n",
				book.Title, book.ID, book.TotalCharacters)
			return nil
		},
	}
	importCmd.Flags().StringVar(&title, "title", "", "book title (defaults to file name)")
	importCmd.Flags().StringVar(&author, "author", "", "author")
	importCmd.Flags().IntVar(&year, "year", 0, "publication year")
	importCmd.Flags().StringVar(&genre, "genre", "", "genre")
	importCmd.Flags().StringVar(&description, "description", "", "description")

	catalog.AddCommand(seedCmd, listCmd, showCmd, importCmd)
	return catalog
}

func newReadCmd(dataPath *string) *cobra.Command {
	read := &cobra.Command{Use: "read", Short: "Track step-powered reading"}

	startCmd := &cobra.Command{
		Use:   "start <book-id>",
		Short: "Start reading a book, baselined at the current step count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			ctx := context.Background()
			book, err := app.CatalogCLI.GetBook(ctx, args[0])
			if err != nil {
				return err
			}
			prog, err := app.ProgressCLI.StartReading(ctx, book.ID, book.Title, book.TotalCharacters)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reading %s\n", book.Title)
			printProgress(cmd, prog)
			return nil
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update [book-id]",
		Short: "Pull in new steps for a book (defaults to the open one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			ctx := context.Background()
			bookID, err := resolveBookID(ctx, app, args)
			if err != nil {
				return err
			}
			prog, err := app.ProgressCLI.UpdateProgress(ctx, bookID)
			if err != nil {
				return err
			}
			printProgress(cmd, prog)
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the open reading after a final step sync",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			if err := app.ProgressCLI.StopReading(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "reading stopped")
			return nil
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats [book-id]",
		Short: "Show unlock stats for a book (defaults to the open one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			ctx := context.Background()
			bookID, err := resolveBookID(ctx, app, args)
			if err != nil {
				return err
			}
			stats, err := app.ProgressCLI.Stats(ctx, bookID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "steps:    %d\n", stats.TotalSteps)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "unlocked: %d / %d\n", stats.UnlockedChars, stats.TotalChars)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "progress: %d%%\n", stats.ProgressPercent)
			return nil
		},
	}

	read.AddCommand(startCmd, updateCmd, stopCmd, statsCmd)
	return read
}

func newSyncCmd(dataPath *string) *cobra.Command {
	var reindex bool

	sync := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the shelf and pull in new steps for every book",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			ctx := context.Background()
			if err := app.SyncCatalog(ctx); err != nil {
				return err
			}
			app.ProgressCLI.UpdateAllBooks(ctx)
			if reindex {
				if err := app.ProgressCLI.Reindex(ctx); err != nil {
					return err
				}
			}
			for _, prog := range app.ProgressCLI.AllBooksProgress(ctx) {
				printProgress(cmd, prog)
			}
			return nil
		},
	}
	sync.Flags().BoolVar(&reindex, "reindex", false, "rebuild the read-model database from the ledger")
	return sync
}

func newStepsCmd(dataPath *string) *cobra.Command {
	steps := &cobra.Command{Use: "steps", Short: "Query the step counter"}

	todayCmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's step count",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			reading := app.HealthCLI.TodaySteps(context.Background())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %d%s\n", reading.Date, reading.Steps, estimateTag(reading.Estimated))
			return nil
		},
	}

	dateCmd := &cobra.Command{
		Use:   "date <yyyy-mm-dd>",
		Short: "Show the step count for one date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			reading, err := app.HealthCLI.StepsForDate(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %d%s\n", reading.Date, reading.Steps, estimateTag(reading.Estimated))
			return nil
		},
	}

	weekCmd := &cobra.Command{
		Use:   "week",
		Short: "Show step counts for the trailing week",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			for _, reading := range app.HealthCLI.WeekSteps(context.Background()) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %d%s\n", reading.Date, reading.Steps, estimateTag(reading.Estimated))
			}
			return nil
		},
	}

	steps.AddCommand(todayCmd, dateCmd, weekCmd)
	return steps
}

func newProviderCmd(dataPath *string) *cobra.Command {
	provider := &cobra.Command{Use: "provider", Short: "Manage step providers"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List configured step provider plugins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			providers, err := app.HealthCLI.ListProviders(context.Background())
			if err != nil {
				return err
			}
			if len(providers) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no providers configured, step counts are estimated")
				return nil
			}
			for _, p := range providers {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", p.Name, p.Binary)
			}
			return nil
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check <name>",
		Short: "Probe one provider plugin for its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			meta, err := app.HealthCLI.CheckProvider(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", meta.Name, meta.Version)
			return nil
		},
	}

	provider.AddCommand(listCmd, checkCmd)
	return provider
}

func resolveBookID(ctx context.Context, app *bootstrap.App, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return app.ProgressCLI.ResumeBookID(ctx)
}

func printBook(cmd *cobra.Command, book catalogdto.BookOutput) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s — %s\n", book.Title, book.Author)
	if book.Year != 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "year:   %d\n", book.Year)
	}
	if book.Genre != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "genre:  %s\n", book.Genre)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "length: %d characters\n", book.TotalCharacters)
}

func printProgress(cmd *cobra.Command, prog progressdto.ProgressOutput) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d chars, %d steps accrued\n",
		prog.BookTitle, prog.UnlockedCharacters, prog.TotalCharacters, prog.AccumulatedSteps)
}

func estimateTag(estimated bool) string {
	if estimated {
		return " (estimated)"
	}
	return ""
}
