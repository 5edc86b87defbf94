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
)

var topGenresNumber int
var topGenresCmd = &cobra.Command{
	Use:   "top-genres",
	Short: "Lists the Spotify genre tags with the most exported tracks",
	Long:  `Reads the SQLite database written by export. A track counts once for each of its artist's genre tags.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopGenres(cmd.OutOrStdout(), viper.GetString("database"), topGenresNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topGenresCmd)

	topGenresCmd.Flags().IntVarP(&topGenresNumber, "number", "n", 20, "number of results to return, 0 for all")
}

func printTopGenres(out io.Writer, dbPath string, numToReturn int) error {
	db, err := openExport(dbPath)
	if err != nil {
		return fmt.Errorf("printTopGenres: %w", err)
	}
	defer db.Close()

	counts, err := db.GenreTrackCounts()
	if err != nil {
		return fmt.Errorf("printTopGenres: %w", err)
	}

	analysis := newAnalysis("Genre", "Tracks")
	for i, g := range counts {
		if numToReturn > 0 && i >= numToReturn {
			break
		}
		analysis.append(g.Genre, numbers.Sprintf("%d", g.Tracks))
	}
	analysis.summary = fmt.Sprintf("Found %d genres in %s", len(counts), dbPath)
	fmt.Fprint(out, analysis)
	return nil
}
