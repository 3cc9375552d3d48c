package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/degreeplan/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "degreeplan",
	Short: "Degree plan warnings and requirement audits",
	Long: `degreeplan checks a multi-year course plan for credit-load, prerequisite,
corequisite and duplicate-course problems, and audits it against the
requirement groups of a major compiled from the course catalog.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .degreeplan.yaml)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if envFile, _ := rootCmd.PersistentFlags().GetString("env-file"); envFile != "" {
		if err := config.LoadDotEnv(envFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".degreeplan")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	config.SetupEnv()

	// It's fine if no config file is found; we use defaults.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
		}
	}
}
