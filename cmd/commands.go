package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"postboard/config"
	"postboard/internal/adapter/in/web"
	"postboard/internal/app"
	"postboard/internal/service"
	"postboard/pkg/logger"

	"github.com/spf13/cobra"
)

var errPostNotFound = errors.New("post not found")

type cli struct {
	seedFile string
	logLevel string
	cfg      config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "postboard",
		Short:         "Blog post board with search and sorting",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.seedFile, "seed-file", "", "YAML file with the initial posts (overrides SEED_FILE)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(c.serveCmd())
	rootCmd.AddCommand(c.listCmd())
	rootCmd.AddCommand(c.openCmd())

	return rootCmd
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg := config.LoadConfig()
	if c.seedFile != "" {
		cfg.SeedFile = c.seedFile
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	log := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	cmd.SetContext(logger.WithLogger(cmd.Context(), log))
	return nil
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the blog page and the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.NewApp(ctx, c.cfg)
			if err != nil {
				return err
			}
			return a.Run(ctx)
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	var (
		query  string
		sortBy string
		order  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print posts, optionally filtered and sorted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, pool, err := app.NewPostService(ctx, c.cfg, nil)
			if err != nil {
				return err
			}
			if pool != nil {
				defer pool.Close()
			}

			req := service.ListPostsRequest{Query: query}
			if cmd.Flags().Changed("sort") || cmd.Flags().Changed("order") {
				req.Field = service.ParseSortField(sortBy)
				req.Order = service.ParseSortOrder(order)
			}

			posts, err := svc.ListPosts(ctx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(posts)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tREAD TIME\tSLUG\tTITLE")
			for _, p := range posts {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Date, p.ReadTime, p.Slug, p.Title)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive text to look for in title or description")
	cmd.Flags().StringVar(&sortBy, "sort", "date", "Sort field (date, title)")
	cmd.Flags().StringVar(&order, "order", "desc", "Sort order (asc, desc)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	return cmd
}

func (c *cli) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <slug>",
		Short: "Print the link a click on the post card opens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, pool, err := app.NewPostService(ctx, c.cfg, nil)
			if err != nil {
				return err
			}
			if pool != nil {
				defer pool.Close()
			}

			post, ok, err := svc.GetBySlug(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", errPostNotFound, args[0])
			}

			if link, ok := (web.LinkActivator{}).Activate(ctx, post); ok {
				fmt.Fprintln(cmd.OutOrStdout(), link)
			}
			return nil
		},
	}
}
