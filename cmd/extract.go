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
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ademuri/bandstats/internal/artists"
	"github.com/ademuri/bandstats/internal/extract"
	"github.com/ademuri/bandstats/internal/spotify"
)

type ExtractConfig struct {
	CachePath    string
	ClientID     string
	ClientSecret string
	ArtistsFile  string
	MaxAlbums    int
	MaxTracks    int
	Force        bool

	// Empty means the real Spotify endpoints.
	APIURL      string
	AccountsURL string
}

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Fetches band metadata and audio features from Spotify",
	Long: `Searches Spotify for each band, then fetches a few of its albums, a few
tracks per album, and the tracks' audio features into the cache. Bands that
are already cached are skipped, so an interrupted run can simply be restarted.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := ExtractConfig{
			CachePath:    viper.GetString("cache"),
			ClientID:     viper.GetString("client_id"),
			ClientSecret: viper.GetString("client_secret"),
			ArtistsFile:  viper.GetString("artists"),
			MaxAlbums:    viper.GetInt("max_albums"),
			MaxTracks:    viper.GetInt("max_tracks"),
			Force:        viper.GetBool("force"),
		}

		log, err := newLogger()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer log.Sync()

		err = runExtract(cmd.Context(), cmd.OutOrStdout(), config, log)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	var clientID string
	extractCmd.Flags().StringVar(&clientID, "client_id", "", "Spotify client ID")
	viper.BindPFlag("client_id", extractCmd.Flags().Lookup("client_id"))

	var clientSecret string
	extractCmd.Flags().StringVar(&clientSecret, "client_secret", "", "Spotify client secret")
	viper.BindPFlag("client_secret", extractCmd.Flags().Lookup("client_secret"))

	var artistsFile string
	extractCmd.Flags().StringVar(&artistsFile, "artists", "", "File with one band name per line (default is the built-in list)")
	viper.BindPFlag("artists", extractCmd.Flags().Lookup("artists"))

	var maxAlbums int
	extractCmd.Flags().IntVar(&maxAlbums, "max_albums", extract.DefaultMaxAlbums, "Maximum number of albums to fetch per band")
	viper.BindPFlag("max_albums", extractCmd.Flags().Lookup("max_albums"))

	var maxTracks int
	extractCmd.Flags().IntVar(&maxTracks, "max_tracks", extract.DefaultMaxTracksPerAlbum, "Maximum number of tracks to fetch per album")
	viper.BindPFlag("max_tracks", extractCmd.Flags().Lookup("max_tracks"))

	var force bool
	extractCmd.Flags().BoolVarP(&force, "force", "f", false, "Re-fetch bands that are already in the cache")
	viper.BindPFlag("force", extractCmd.Flags().Lookup("force"))
}

func runExtract(ctx context.Context, out io.Writer, config ExtractConfig, log *zap.Logger) error {
	if config.ClientID == "" || config.ClientSecret == "" {
		return fmt.Errorf("client_id and client_secret are required (flags, config file, or BANDSTATS_CLIENT_ID and BANDSTATS_CLIENT_SECRET)")
	}

	names := artists.Default
	if config.ArtistsFile != "" {
		var err error
		names, err = artists.Load(config.ArtistsFile)
		if err != nil {
			return err
		}
	}
	names = artists.Dedupe(names)

	client := spotify.New(spotify.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		APIURL:       config.APIURL,
		AccountsURL:  config.AccountsURL,
		Log:          log,
	})
	extractor := &extract.Extractor{
		API:               client,
		CachePath:         config.CachePath,
		MaxAlbums:         config.MaxAlbums,
		MaxTracksPerAlbum: config.MaxTracks,
		Force:             config.Force,
		Log:               log,
	}

	log.Info("starting extraction", zap.Int("artists", len(names)), zap.String("cache", config.CachePath))
	result, err := extractor.Run(ctx, names)

	fmt.Fprintf(out, "Fetched %d bands, %d already cached, %d not found, %d tracks dropped without audio features\n",
		len(result.Fetched), len(result.Skipped), len(result.NotFound), result.DroppedTracks)
	if len(result.NotFound) > 0 {
		fmt.Fprintf(out, "Not found: %s\n", strings.Join(result.NotFound, ", "))
	}
	if err != nil {
		return fmt.Errorf("extracting: %w", err)
	}
	fmt.Fprintf(out, "All data has been saved to %s\n", config.CachePath)
	return nil
}
