// Package updater implements the front-matter update workflow: read a
// Markdown file, split header from body, ask the generator for a description
// and keywords, merge them into the header, and write the file back. Both CLI
// variants run this one component with different options.
package updater

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/brand-zz/markdown-summarizer/internal/ai"
	"github.com/brand-zz/markdown-summarizer/internal/frontmatter"
	"github.com/brand-zz/markdown-summarizer/internal/utils"
)

// Generator produces raw response text for a prompt. *ai.Client implements
// it; tests substitute fakes.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Options parameterizes the workflow.
type Options struct {
	Model string
	// SkipIfDescriptionPresent leaves files untouched when their header
	// already carries a non-empty description.
	SkipIfDescriptionPresent bool
	Quiet                    bool
	// Out receives progress messages; defaults to os.Stdout.
	Out io.Writer
}

type Updater struct {
	gen  Generator
	opts Options
}

func New(gen Generator, opts Options) *Updater {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Updater{gen: gen, opts: opts}
}

// ProcessFile runs the full workflow on one file. The file is only replaced
// after generation and parsing succeed; every failure leaves it untouched.
func (u *Updater) ProcessFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	header, body, err := frontmatter.Split(data)
	if err != nil {
		return err
	}
	if header.Len() > 0 {
		if u.opts.SkipIfDescriptionPresent && header.StringField("description") != "" {
			if !u.opts.Quiet {
				fmt.Fprintf(u.opts.Out, "Skipping %s: front matter already has a description\n", path)
			}
			return nil
		}
		if !u.opts.Quiet {
			fmt.Fprintf(u.opts.Out, "%s has existing front matter, updating\n", path)
		}
	} else if !u.opts.Quiet {
		fmt.Fprintf(u.opts.Out, "%s has no front matter, creating one\n", path)
	}

	if mi, ok := ai.LookupModel(u.opts.Model); ok && !u.opts.Quiet {
		if est := utils.CountTokens(string(body)); est > mi.ContextTokens {
			fmt.Fprintf(u.opts.Out, "⚠ Warning: document (~%d tokens) likely exceeds %s context window (~%d tokens)\n",
				est, mi.Name, mi.ContextTokens)
		}
	}

	raw, err := u.gen.Generate(ctx, u.opts.Model, ai.BuildPrompt(string(body)))
	if err != nil {
		return err
	}
	meta, err := ai.ParseMetadata(raw)
	if err != nil {
		return err
	}

	header.SetString("description", meta.Description)
	header.SetStringList("keywords", meta.Keywords)

	out, err := frontmatter.Compose(header, body)
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, out); err != nil {
		return err
	}
	if !u.opts.Quiet {
		fmt.Fprintf(u.opts.Out, "✓ Updated front matter for %s\n", path)
	}
	return nil
}
