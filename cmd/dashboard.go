/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ademuri/bandstats/internal/dashboard"
)

type DashboardConfig struct {
	CachePath string
	Addr      string
	Watch     bool
}

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serves interactive charts of the cached data",
	Long: `Loads the cache once and serves a page of charts filtered by broad genre
and artist popularity. With --watch, the cache is reloaded whenever it changes,
so the dashboard can be left running while extract fills the cache.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := DashboardConfig{
			CachePath: viper.GetString("cache"),
			Addr:      viper.GetString("addr"),
			Watch:     viper.GetBool("watch"),
		}

		log, err := newLogger()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer log.Sync()

		err = runDashboard(cmd.Context(), config, log)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	var addr string
	dashboardCmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8050", "Address to serve the dashboard on")
	viper.BindPFlag("addr", dashboardCmd.Flags().Lookup("addr"))

	var watch bool
	dashboardCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the cache when it changes")
	viper.BindPFlag("watch", dashboardCmd.Flags().Lookup("watch"))
}

func runDashboard(ctx context.Context, config DashboardConfig, log *zap.Logger) error {
	server, err := dashboard.New(config.CachePath, log)
	if err != nil {
		return fmt.Errorf("starting dashboard: %w", err)
	}
	return server.Run(ctx, config.Addr, config.Watch)
}
