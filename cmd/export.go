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
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ademuri/bandstats/internal/catalog"
	"github.com/ademuri/bandstats/internal/store"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Copies the cache into a SQLite database",
	Long:  `Writes every cached band, album and track into the SQLite database. Bands that were exported before are replaced, so export can be re-run after each extraction.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log, err := newLogger()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer log.Sync()

		err = runExport(cmd.OutOrStdout(), viper.GetString("cache"), viper.GetString("database"), log)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(out io.Writer, cachePath string, dbPath string, log *zap.Logger) error {
	cache, err := catalog.Load(cachePath, log)
	if err != nil {
		return err
	}

	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	stats, err := db.ImportCache(cache)
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}
	fmt.Fprintln(out, numbers.Sprintf("Exported %d artists, %d albums and %d tracks to %s",
		stats.Artists, stats.Albums, stats.Tracks, dbPath))
	return nil
}
