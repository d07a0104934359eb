package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	AppName = "Raden Pocket Advance Generator"

	LOGO = `                  _
	 _ __ __ _  __| | ___ _ __
	| '__/ _' |/ _' |/ _ \ '_ \
	| | | (_| | (_| |  __/ | | |
	|_|  \__,_|\__,_|\___|_| |_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "raden",
	Short: "Build one-page pocket advances for protective details.",
	Long: LOGO + `raden keeps a single pocket advance on disk, renders it to a printable
Letter PDF and can ask an LLM for a risk brief over the same record.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.raden.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy for upstream APIs (Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite DB file (default is $HOME/.config/raden/raden.sqlite)")

	rootCmd.PersistentFlags().Bool("ephemeral", false, "Keep the advance in memory only for this run")
	viper.BindPFlag("storage.path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("ephemeral", rootCmd.PersistentFlags().Lookup("ephemeral"))
	viper.BindPFlag("proxy", rootCmd.PersistentFlags().Lookup("proxy"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".raden")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	setDefaults()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := filepath.Join(home, ".raden.yaml")
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Bound after the first write so env secrets never land in the file.
	viper.BindEnv("ai.openai_key", "OPENAI_API_KEY")
	viper.BindEnv("ai.anthropic_key", "ANTHROPIC_API_KEY")
	viper.BindEnv("ai.gemini_key", "GEMINI_API_KEY")
	viper.BindEnv("places.key", "GOOGLE_MAPS_API_KEY")
	viper.BindEnv("storage.path", "RADEN_DB")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

func setDefaults() {
	viper.SetDefault("storage.path", "")

	viper.SetDefault("ai.provider", "openai")
	viper.SetDefault("ai.model", "")
	viper.SetDefault("ai.endpoint", "")
	viper.SetDefault("ai.timeout", "60s")
	viper.SetDefault("ai.openai_key", "")
	viper.SetDefault("ai.anthropic_key", "")
	viper.SetDefault("ai.gemini_key", "")

	viper.SetDefault("places.key", "")
	viper.SetDefault("places.endpoint", "")
	viper.SetDefault("places.timeout", "15s")

	viper.SetDefault("export.scale", 2)
	viper.SetDefault("export.engine", "box")
	viper.SetDefault("export.chrome_bin", "")

	viper.SetDefault("server.bind", "127.0.0.1:8080")
	viper.SetDefault("server.username", "")
	viper.SetDefault("server.password", "")
}
