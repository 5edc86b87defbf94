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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/bandstats/internal/store"
)

var topArtistsNumber int
var topArtistsCmd = &cobra.Command{
	Use:   "top-artists",
	Short: "Lists the most-followed exported artists",
	Long:  `Reads the SQLite database written by export.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopArtists(cmd.OutOrStdout(), viper.GetString("database"), topArtistsNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topArtistsCmd)

	topArtistsCmd.Flags().IntVarP(&topArtistsNumber, "number", "n", 10, "number of results to return")
}

// openExport opens the database written by export, without creating one.
func openExport(dbPath string) (*store.Store, error) {
	if _, err := os.Stat(dbPath); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("Database doesn't exist - run export first.")
	} else if err != nil {
		return nil, fmt.Errorf("checking database: %w", err)
	}
	return store.New(dbPath)
}

func printTopArtists(out io.Writer, dbPath string, numToReturn int) error {
	db, err := openExport(dbPath)
	if err != nil {
		return fmt.Errorf("printTopArtists: %w", err)
	}
	defer db.Close()

	artists, err := db.TopArtists(numToReturn)
	if err != nil {
		return fmt.Errorf("printTopArtists: %w", err)
	}

	analysis := newAnalysis("Artist", "Followers", "Popularity", "Albums", "Tracks")
	for _, a := range artists {
		analysis.append(
			a.Name,
			numbers.Sprintf("%d", a.Followers),
			fmt.Sprint(a.Popularity),
			fmt.Sprint(a.Albums),
			fmt.Sprint(a.Tracks),
		)
	}
	analysis.summary = fmt.Sprintf("Showing %d artists from %s", len(artists), dbPath)
	fmt.Fprint(out, analysis)
	return nil
}
