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
	"gopkg.in/yaml.v3"

	"github.com/ademuri/bandstats/internal/catalog"
	"github.com/ademuri/bandstats/internal/table"
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Prints per-genre statistics from the cache",
	Long:  `Groups the cached tracks by broad genre and prints band and track counts and mean audio features, as a table or as YAML.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log, err := newLogger()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer log.Sync()

		err = runSummary(cmd.OutOrStdout(), viper.GetString("cache"), viper.GetString("format"), log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating summary: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	var format string
	summaryCmd.Flags().StringVar(&format, "format", "table", "Output format: table or yaml")
	viper.BindPFlag("format", summaryCmd.Flags().Lookup("format"))
}

type Summary struct {
	Artists   int                `yaml:"artists"`
	Tracks    int                `yaml:"tracks"`
	Followers int64              `yaml:"followers"`
	Genres    []table.GenreStats `yaml:"genres"`
}

func summarize(cache catalog.Cache) Summary {
	rows := table.Flatten(cache)
	summary := Summary{
		Artists: len(cache),
		Tracks:  len(rows),
		Genres:  table.ByGenre(rows),
	}
	for _, artist := range cache {
		summary.Followers += artist.Followers
	}
	return summary
}

func runSummary(out io.Writer, cachePath string, format string, log *zap.Logger) error {
	if format != "table" && format != "yaml" {
		return fmt.Errorf("unknown format %q, want table or yaml", format)
	}

	cache, err := catalog.Load(cachePath, log)
	if err != nil {
		return err
	}
	summary := summarize(cache)

	if format == "yaml" {
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(summary); err != nil {
			return fmt.Errorf("encoding summary: %w", err)
		}
		return encoder.Close()
	}

	analysis := newAnalysis("Genre", "Bands", "Tracks", "Energy", "Loudness", "Valence", "Danceability", "Acousticness")
	for _, g := range summary.Genres {
		analysis.append(
			g.Genre,
			numbers.Sprintf("%d", g.Bands),
			numbers.Sprintf("%d", g.Tracks),
			fmt.Sprintf("%.3f", g.Mean.Energy),
			fmt.Sprintf("%.2f", g.Mean.Loudness),
			fmt.Sprintf("%.3f", g.Mean.Valence),
			fmt.Sprintf("%.3f", g.Mean.Danceability),
			fmt.Sprintf("%.3f", g.Mean.Acousticness),
		)
	}
	analysis.summary = numbers.Sprintf("Found %d artists with %d tracks and %d followers in %s",
		summary.Artists, summary.Tracks, summary.Followers, cachePath)
	fmt.Fprint(out, analysis)
	return nil
}
