package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bizmate/automation/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [rule-file]",
	Short: "Validate a rule definition",
	Long: `Validate a rule definition file before registering it.

The validator checks:
  - Required fields (id, name, trigger)
  - Valid trigger types
  - Condition operator syntax
  - Action types and retry settings

Examples:
  automation validate rule.json
  automation validate rule.json --json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := args[0]

		if _, err := os.Stat(filename); os.IsNotExist(err) {
			fmt.Printf("Error: file %q not found\n", filename)
			os.Exit(1)
		}

		result, _, err := cli.ValidateRuleFile(filename)
		if err != nil {
			fmt.Printf("Error validating rule: %v\n", err)
			os.Exit(1)
		}

		if outputJSON {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
		} else if result.Valid {
			fmt.Println("Rule is valid")
		} else {
			fmt.Printf("Rule validation failed with %d error(s):\n", len(result.Errors))
			for i, e := range result.Errors {
				fmt.Printf("  %d. %s\n", i+1, e)
			}
		}

		if !result.Valid {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
