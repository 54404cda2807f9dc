package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sartorproj/gofred/cache"
)

func (a *app) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Remove expired responses from the SQLite cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openCache(cmd.Context())
			if err != nil {
				return err
			}
			db, ok := store.(*cache.SQLite)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "cache driver %s expires entries on its own\n", a.cfg.Cache.Driver)
				return nil
			}
			n, err := db.Prune(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired responses from %s\n", n, db.Path())
			return nil
		},
	})
	return cmd
}
