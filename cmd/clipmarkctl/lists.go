package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"clipmark/internal/config"
	"clipmark/internal/store"
)

var jsonOutput bool

func resolveDBPath() string {
	if dbPathFlag != "" {
		return dbPathFlag
	}
	return filepath.Join(config.DataDir(), "clipmark.db")
}

func withStore(ctx context.Context, fn func(*store.Store) error) error {
	st, err := store.Open(ctx, resolveDBPath())
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func newBookmarksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "List bookmarks in the order they were added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(st *store.Store) error {
				list, err := st.Bookmarks(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if jsonOutput {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(list)
				}
				for i, b := range list {
					fmt.Fprintf(out, "%3d  %s  %s\n", i, b.CreatedAt.Local().Format(time.DateTime), b.Content)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List clipboard history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(st *store.Store) error {
				items, err := st.History(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if jsonOutput {
					return json.NewEncoder(out).Encode(items)
				}
				for i, item := range items {
					fmt.Fprintf(out, "%3d  %q\n", i, item)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")
	return cmd
}
