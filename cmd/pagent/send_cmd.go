package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fentz26/pagent/internal/models"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send one message through the daemon and print the replies",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")

	resp, err := apiPost("/chat", map[string]string{"input": input})
	if err != nil {
		return err
	}

	var result struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return err
	}

	for _, msg := range result.Messages {
		fmt.Printf("[%s] %s\n", msg.Author, msg.Content)
	}
	return nil
}
