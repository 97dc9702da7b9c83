/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

var cfgFile string

// errCheckFailed signals a failed consistency check. It is not printed: the
// JSON report already carries the outcome, and returning it (instead of
// exiting inside RunE) lets deferred cleanup such as store Close run.
var errCheckFailed = errors.New("consistency check failed")

var rootCmd = &cobra.Command{
	Use:   "noveltran",
	Short: "Terminology-consistent novel translation pipeline",
	Long: `A CLI for translating serialized fiction chapter by chapter while keeping
character names and world-building terminology consistent across the novel.

Each chapter is translated with its project terminology pre-substituted and a
window of prior chapter summaries for narrative continuity, then validated:
every approved term must appear in the translation at least as often as its
source form appears in the original.

Use "noveltran translate --help" for per-chapter translation options.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $HOME/.noveltran.yaml)")
	rootCmd.PersistentFlags().String("storage", "sqlite", "Storage backend: sqlite or directus")
	rootCmd.PersistentFlags().String("db", "./data/noveltran.db", "SQLite database path")
	rootCmd.PersistentFlags().String("directus-url", "", "Directus base URL")
	rootCmd.PersistentFlags().String("directus-token", "", "Directus access token")

	viper.BindPFlag("storage", rootCmd.PersistentFlags().Lookup("storage"))
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("directus.url", rootCmd.PersistentFlags().Lookup("directus-url"))
	viper.BindPFlag("directus.token", rootCmd.PersistentFlags().Lookup("directus-token"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".noveltran")
		}
	}

	viper.SetEnvPrefix("NOVELTRAN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
