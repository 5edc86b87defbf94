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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/bandstats/internal/logger"
)

var cfgFile string
var cachePath string
var databasePath string
var logLevel string
var logFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bandstats",
	Short: "Collects Spotify statistics for a list of bands and charts them",
	Long: `Fetches artist metadata, albums, tracks and audio features from the
Spotify Web API into a JSON cache, and serves a dashboard of charts drawn
from the cache.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.bandstats.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&cachePath, "cache", "c", "spotify_cache.json", "Path to the JSON cache file")
	viper.BindPFlag("cache", rootCmd.PersistentFlags().Lookup("cache"))

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./bandstats.db", "Path to the SQLite database written by export")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().StringVar(&logLevel, "log_level", "info", "Log level (debug, info, warn, error)")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log_level"))

	rootCmd.PersistentFlags().StringVar(&logFile, "log_file", "", "Also write JSON logs to this file, rotated")
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log_file"))
}

// initConfig reads in the .env file, config file and ENV variables if set.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Error loading .env:", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".bandstats" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".bandstats")
	}

	// BANDSTATS_CLIENT_ID and so on.
	viper.SetEnvPrefix("bandstats")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.PersistentFlags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func newLogger() (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:      viper.GetString("log_level"),
		OutputPath: viper.GetString("log_file"),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	})
}
