package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/readiz/internal/extract"
	"github.com/abhisek/readiz/internal/llm"
	"github.com/abhisek/readiz/internal/material"
	"github.com/abhisek/readiz/internal/reading"
	"github.com/abhisek/readiz/internal/store"
)

var extractCmd = &cobra.Command{
	Use:   "extract <path|url>",
	Short: "Extract the readable passage from a PDF, DOCX, text file or URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		content, err := contentFor(args[0])
		if err != nil {
			return err
		}

		// Only URLs go through the LLM.
		var provider llm.Provider
		if content.Kind() == reading.KindURL {
			if err := cfg.LLM.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			var eventRepo store.EventRepo
			if !cfg.Store.Disabled {
				st, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer st.Close()
				eventRepo = st.EventRepo()
			}
			if provider, err = llm.NewProvider(cmd.Context(), cfg.LLM, eventRepo); err != nil {
				return fmt.Errorf("LLM provider not configured: %w", err)
			}
		}

		text, err := extract.New(provider, nil, extract.DefaultConfig()).Extract(cmd.Context(), content)
		if err != nil {
			return err
		}
		passage, err := extract.CheckPassage(content.Kind(), text)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), passage)
		return nil
	},
}

// contentFor turns a command-line argument into material content. Plain
// text files are read as pasted text.
func contentFor(arg string) (reading.MaterialContent, error) {
	if material.ValidURL(arg) {
		return reading.URLContent(arg), nil
	}

	f, err := material.LoadFile(arg)
	if err != nil {
		return reading.MaterialContent{}, err
	}
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".txt", ".md":
		return reading.TextContent(string(f.Data)), nil
	}
	return material.Draft{Title: f.Name, File: f}.Validate()
}
