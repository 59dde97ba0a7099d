package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/newsdesk/article-ingestor/internal/application"
	"github.com/newsdesk/article-ingestor/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "article-ingestor",
		Short:        "Article Ingestor CLI",
		Long:         "Article Ingestor CLI: pull feed entries into the article store and inspect it.",
		SilenceUsage: true,
	}

	root.AddCommand(newFetchCmd(), newListCmd(), newVersionCmd())
	return root
}

func newFetchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "fetch [feed-url]",
		Short: "Run one ingestion pass against a feed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if limit > 0 {
				cfg.FetchLimit = limit
			}
			feedURL := cfg.FeedURL
			if len(args) == 1 {
				feedURL = args[0]
			}

			app, err := application.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Ingest.Run(cmd.Context(), feedURL)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries to ingest (default FETCH_LIMIT)")
	return cmd
}

func newListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the newest stored articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if limit == 0 {
				limit = cfg.DefaultListLimit
			}
			if limit < 1 {
				return fmt.Errorf("limit must be a positive integer")
			}

			app, err := application.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			articles, err := app.Articles.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"articles": articles})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of articles (default DEFAULT_LIST_LIMIT)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Article Ingestor CLI\nVersion: %s\n", application.Version)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
