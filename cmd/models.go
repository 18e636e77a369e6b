package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/brand-zz/markdown-summarizer/internal/ai"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect available Gemini models",
	Example: `  mdsum models list
  mdsum models show`,
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List models on the backend that support content generation",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := buildClient(cfg, false)
		if err != nil {
			return err
		}
		names, err := client.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("list models: %w", err)
		}
		if len(names) == 0 {
			fmt.Println("No models supporting content generation were returned.")
			return nil
		}
		for _, name := range names {
			fmt.Printf("  - %s\n", name)
		}
		return nil
	},
}

var modelsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the built-in model catalog with context window sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// json encodes map keys in sorted order, so output is deterministic
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ai.Catalog())
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsShowCmd)
}
