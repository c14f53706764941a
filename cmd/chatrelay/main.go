package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "chatrelay",
	Short: "chatrelay - Groq chat relay",
	Long: `chatrelay relays chat messages to a Groq-hosted model and returns the
answer as JSON or as a server-sent event stream.

Provider settings are read from GROQ_API_KEY, GROQ_MODEL, GROQ_TEMPERATURE
and GROQ_BASE_URL on every request.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
