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

var activeOnly bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all automation rules",
	Long: `List all automation rules registered with the service.

Examples:
  automation list
  automation list --active-only
  automation list --json`,
	Run: func(cmd *cobra.Command, args []string) {
		client := cli.NewClient(viper.GetString("api.url"))

		rules, err := client.GetRules(activeOnly)
		if err != nil {
			fmt.Printf("Failed to get rules: %v\n", err)
			os.Exit(1)
		}

		if outputJSON {
			data, err := json.MarshalIndent(rules, "", "  ")
			if err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
		} else {
			printRuleList(rules)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&activeOnly, "active-only", false, "Show only active rules")
}

func printRuleList(rules []models.Rule) {
	if len(rules) == 0 {
		fmt.Println("No rules found")
		return
	}

	fmt.Printf("Found %d rule(s):\n\n", len(rules))
	fmt.Printf("%-28s %-30s %-28s %-8s %-8s\n", "ID", "NAME", "TRIGGER", "PRIORITY", "ACTIVE")

	for _, r := range rules {
		fmt.Printf("%-28s %-30s %-28s %-8d %-8t\n",
			truncate(r.ID, 28),
			truncate(r.Name, 30),
			truncate(string(r.Trigger), 28),
			r.Priority,
			r.IsActive,
		)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
