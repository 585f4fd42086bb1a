package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bizmate/automation/internal/cli"
	"github.com/bizmate/automation/internal/models"
)

var payloadFile string

var triggerCmd = &cobra.Command{
	Use:   "trigger [event]",
	Short: "Fire a domain event at the service",
	Long: `Fire a domain event at the automation service. The payload is read
from the file given with --payload, or defaults to an empty object.

Examples:
  automation trigger opportunity_won --payload event.json
  automation trigger client_created`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		event := models.TriggerKind(args[0])
		if !event.Valid() {
			fmt.Printf("Unknown event type %q\n", args[0])
			fmt.Println("Known events:")
			for _, kind := range models.TriggerKinds {
				fmt.Printf("  %s\n", kind)
			}
			os.Exit(1)
		}

		payload := map[string]interface{}{}
		if payloadFile != "" {
			data, err := os.ReadFile(payloadFile)
			if err != nil {
				fmt.Printf("Failed to read payload file: %v\n", err)
				os.Exit(1)
			}
			if err := json.Unmarshal(data, &payload); err != nil {
				fmt.Printf("Failed to parse payload JSON: %v\n", err)
				os.Exit(1)
			}
		}

		client := cli.NewClient(viper.GetString("api.url"))
		req := &models.TriggerEventRequest{
			Event:       event,
			Payload:     payload,
			TriggeredBy: "cli",
		}

		if err := client.TriggerEvent(req); err != nil {
			fmt.Printf("Failed to trigger event: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Event %s accepted\n", event)
	},
}

func init() {
	rootCmd.AddCommand(triggerCmd)
	triggerCmd.Flags().StringVar(&payloadFile, "payload", "", "JSON file holding the event payload")
}
