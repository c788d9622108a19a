// records-cli is the console front-end of the records API.
//
//	records-cli people --server http://localhost:3001
//	records-cli products
//	records-cli seed
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aanand-mishra/records-api/internal/client"
	"github.com/aanand-mishra/records-api/internal/logger"
	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/aanand-mishra/records-api/internal/ui"
	"github.com/aanand-mishra/records-api/internal/ui/shell"
)

func main() {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type options struct {
	server string
	env    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "records-cli",
		Short:        "Browse and edit people and products",
		SilenceUsage: true,
	}

	server := os.Getenv("RECORDS_SERVER")
	if server == "" {
		server = "http://localhost:3001"
	}
	root.PersistentFlags().StringVar(&opts.server, "server", server, "base URL of the records API")
	root.PersistentFlags().StringVar(&opts.env, "env", "dev", "log format: dev, staging or prod")

	root.AddCommand(
		&cobra.Command{
			Use:   "people",
			Short: "Interactive shell over people",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				log := logger.NewWithWriter(opts.env, cmd.ErrOrStderr())
				out := cmd.OutOrStdout()
				ctrl := ui.NewPeopleController(ui.PeopleAPI{Client: client.New(opts.server)},
					shell.Printer{W: out}, log, types.Today)
				return shell.New(ctrl, out, "people> ").Run(cmd.Context(), cmd.InOrStdin())
			},
		},
		&cobra.Command{
			Use:   "products",
			Short: "Interactive shell over products",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				log := logger.NewWithWriter(opts.env, cmd.ErrOrStderr())
				out := cmd.OutOrStdout()
				ctrl := ui.NewProductsController(ui.ProductsAPI{Client: client.New(opts.server)},
					shell.Printer{W: out}, log)
				return shell.New(ctrl, out, "products> ").Run(cmd.Context(), cmd.InOrStdin())
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Create a few demo records",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				log := logger.NewWithWriter(opts.env, cmd.ErrOrStderr())
				return seed(cmd.Context(), client.New(opts.server), log, cmd.OutOrStdout())
			},
		},
	)
	return root
}

func seed(ctx context.Context, c *client.Client, log *slog.Logger, out io.Writer) error {
	people := []types.Person{
		{Name: "Ann", Age: 30, Nickname: "annie", Email: "ann@example.com", Date: types.NewDate(2024, 1, 1)},
		{Name: "Bob", Age: 41, Date: types.NewDate(2023, 6, 15)},
		{Name: "Zoë", Age: 25, Email: "zoe@example.org", Date: types.NewDate(2022, 11, 3)},
	}
	products := []types.Product{
		{Name: "Chair", Price: 49.9, Category: types.CategoryFurniture},
		{Name: "Drill", Price: 89, Category: types.CategoryTool},
		{Name: "Plank", Price: 7.25, Category: types.CategoryMaterial},
	}

	for _, p := range people {
		created, err := c.CreatePerson(ctx, p)
		if err != nil {
			return err
		}
		log.Debug("seeded person", slog.String("id", created.ID))
	}
	for _, p := range products {
		created, err := c.CreateProduct(ctx, p)
		if err != nil {
			return err
		}
		log.Debug("seeded product", slog.String("id", created.ID))
	}

	_, err := fmt.Fprintf(out, "created %d people and %d products\n", len(people), len(products))
	return err
}
