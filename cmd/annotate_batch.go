package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/brand-zz/markdown-summarizer/internal/updater"
	"github.com/spf13/cobra"
)

var (
	abModel          string
	abIgnoreExisting bool
	abQuiet          bool
)

var annotateBatchCmd = &cobra.Command{
	Use:   "annotate-batch <files...>",
	Short: "Generate front matter for multiple Markdown files",
	Long: `Annotate-batch processes files sequentially in input order. Transient backend
errors are retried with backoff until the command is cancelled; other per-file
errors are reported and the run continues with the next file. The exit status
is always zero.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)

		client, err := buildClient(cfg, true)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		errOut := cmd.ErrOrStderr()
		u := updater.New(client, updater.Options{
			Model:                    selectModel(cfg, abModel),
			SkipIfDescriptionPresent: abIgnoreExisting,
			Quiet:                    abQuiet,
			Out:                      out,
		})

		total := len(files)
		diagShown := false
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			if err := u.ProcessFile(cmd.Context(), path); err != nil {
				fmt.Fprintf(errOut, "✗ %s: %v\n", path, err)
				if !diagShown && isNonTransientAPIError(err) {
					printModelDiagnostics(cmd.Context(), client, errOut)
					diagShown = true
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(annotateBatchCmd)
	annotateBatchCmd.Flags().StringVar(&abModel, "model", "", "Gemini model to use (default gemini-2.5-flash-lite)")
	annotateBatchCmd.Flags().BoolVar(&abIgnoreExisting, "ignore-existing", false, "skip files whose front matter already has a description")
	annotateBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
