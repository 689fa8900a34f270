package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfigFile = "config.yaml"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "ratez",
	Short:        "ratez cli",
	Long:         `ratez keeps a local catalog of movies and your ratings for them`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigFile, "config file")
}

func initConfig() {
	// the default config file is optional
	if _, err := os.Stat(cfgFile); err == nil || cfgFile != defaultConfigFile {
		viper.SetConfigFile(cfgFile)
	}

	viper.SetEnvPrefix("RATEZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", ""))
	viper.AutomaticEnv()

	viper.SetDefault("storage.dir", "data")
	viper.SetDefault("storage.file", "movies.json")

	viper.SetDefault("server.port", 8080)

	viper.SetDefault("poster.timeout", 5*time.Second)
	viper.SetDefault("poster.maxRetries", 3)
	viper.SetDefault("poster.backoff", 500*time.Millisecond)
	viper.SetDefault("poster.cacheTTL", 10*time.Minute)
}
