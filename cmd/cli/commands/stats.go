package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bizmate/automation/internal/cli"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show engine statistics",
	Long: `Show the engine's aggregate statistics: rule counts, execution
totals, queue depth, and whether an execution is in flight.

Examples:
  automation stats
  automation stats --json`,
	Run: func(cmd *cobra.Command, args []string) {
		client := cli.NewClient(viper.GetString("api.url"))

		stats, err := client.GetStats()
		if err != nil {
			fmt.Printf("Failed to get stats: %v\n", err)
			os.Exit(1)
		}

		if outputJSON {
			data, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
			return
		}

		fmt.Println("Engine statistics:")
		fmt.Printf("  Total rules:      %d\n", stats.TotalRules)
		fmt.Printf("  Active rules:     %d\n", stats.ActiveRules)
		fmt.Printf("  Total executions: %d\n", stats.TotalExecutions)
		fmt.Printf("  Total errors:     %d\n", stats.TotalErrors)
		fmt.Printf("  Queue length:     %d\n", stats.QueueLength)
		fmt.Printf("  Processing:       %t\n", stats.IsProcessing)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
