package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/counciltech/intake/internal/cli"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		engine, cleanup, err := cli.BuildEngine(cfg, logger)
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		userID, _ := cmd.Flags().GetString("user")
		plain, _ := cmd.Flags().GetBool("plain")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := cli.RunChat(ctx, engine, cli.ChatOptions{
			UserID: userID,
			Plain:  plain,
		}); err != nil && err != context.Canceled {
			fmt.Printf("Chat error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("user", "u", "local", "User id for the session")
	chatCmd.Flags().Bool("plain", false, "Disable the banner and markdown rendering")
}
