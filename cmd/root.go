package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sagehq/sage/pkg/chat"
	"github.com/sagehq/sage/pkg/config"
	"github.com/sagehq/sage/pkg/console"
	"github.com/sagehq/sage/pkg/logger"
	"github.com/sagehq/sage/pkg/memory"
	"github.com/sagehq/sage/pkg/tutor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "sage",
	Short: "Streaming chat client for the sage tutoring platform",
	Long: `sage talks to the tutoring backend over its streaming chat API,
showing the tutor's thinking trace and answer as they arrive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := logger.Init(); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		defer logger.Close()

		if used := config.GetConfigFileUsed(); used != "" {
			logger.Debug("using config file %s", used)
		}

		token := func() string { return settings.Tutor.AuthToken }

		recorder, err := memory.NewRecorder(settings.Memory, token)
		if err != nil {
			return fmt.Errorf("failed to create memory recorder: %w", err)
		}
		defer recorder.Close()

		client := tutor.NewClient(tutor.Settings{
			BaseURL:           settings.Tutor.URL,
			ChatPath:          settings.Tutor.ChatPath,
			Token:             token,
			Recorder:          recorder,
			SummaryLimit:      settings.Memory.SummaryLimit,
			Timeout:           settings.Tutor.Timeout,
			InactivityTimeout: settings.Tutor.InactivityTimeout,
		})
		defer client.Close()

		history, err := chat.NewHistory(settings.HistoryFile)
		if err != nil {
			return fmt.Errorf("failed to open chat history: %w", err)
		}
		if !viper.GetBool("continue") {
			if err := history.Clear(); err != nil {
				return fmt.Errorf("failed to clear chat history: %w", err)
			}
		}

		runner := console.NewRunner(client, history, console.NewOutput(settings.ShowThinking))

		ctx := context.Background()
		if prompt := viper.GetString("prompt"); prompt != "" {
			return runner.RunPrompt(ctx, prompt)
		}
		return runner.RunInteractive(ctx)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .sage/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().Bool("continue", false, "continue from previous chat history instead of starting fresh")
	viper.BindPFlag("continue", rootCmd.PersistentFlags().Lookup("continue"))

	rootCmd.PersistentFlags().StringP("prompt", "p", "", "execute a single prompt and exit")
	viper.BindPFlag("prompt", rootCmd.PersistentFlags().Lookup("prompt"))

	rootCmd.PersistentFlags().Bool("show-thinking", true, "show the tutor's thinking trace while it streams")
	viper.BindPFlag("show_thinking", rootCmd.PersistentFlags().Lookup("show-thinking"))
}
