package cmd

import (
	"github.com/brand-zz/markdown-summarizer/internal/updater"
	"github.com/spf13/cobra"
)

var annModel string

var annotateCmd = &cobra.Command{
	Use:   "annotate <file>",
	Short: "Generate front matter for a single Markdown file",
	Long:  `Annotate reads one Markdown file, generates a description and keywords for its body, and rewrites the file with updated front matter. Any failure is fatal; there is no retry.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := buildClient(cfg, false)
		if err != nil {
			return err
		}
		u := updater.New(client, updater.Options{
			Model: selectModel(cfg, annModel),
		})
		return u.ProcessFile(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(annotateCmd)
	annotateCmd.Flags().StringVar(&annModel, "model", "", "Gemini model to use (default gemini-2.5-flash-lite)")
}
