package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"hukuk-asistani/legal"
	"hukuk-asistani/models"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	pipeline := legal.NewPipeline(legal.DefaultLawRegistry())

	rootCmd := &cobra.Command{
		Use:   "hukukctl",
		Short: "Offline tools for the legal assistant text pipeline",
		Long: `hukukctl runs the reference extractor, the topic classifier, the prompt
composer and the response post-processor locally, without calling the model.

Input is read from the arguments, from --file, or from stdin.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(refsCmd(pipeline))
	rootCmd.AddCommand(classifyCmd(pipeline))
	rootCmd.AddCommand(promptCmd(pipeline))
	rootCmd.AddCommand(processCmd(pipeline))
	rootCmd.AddCommand(lawsCmd(pipeline))
	return rootCmd
}

func refsCmd(p *legal.Pipeline) *cobra.Command {
	var file string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "refs [text]",
		Short: "Extract ranked legal references from text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, file, args)
			if err != nil {
				return err
			}
			refs := p.Extractor.Extract(text)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), refs)
			}
			for _, r := range refs {
				line := r.Text
				if r.URL != "" {
					line += "\t" + r.URL
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read text from file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print references as JSON")
	return cmd
}

func classifyCmd(p *legal.Pipeline) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "classify [question]",
		Short: "Print the topic block of a question",
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readInput(cmd, file, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Classifier.Classify(question).TopicBlock())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read question from file")
	return cmd
}

func promptCmd(p *legal.Pipeline) *cobra.Command {
	var file, historyFile string

	cmd := &cobra.Command{
		Use:   "prompt [question]",
		Short: "Print the enriched prompt sent to the model",
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readInput(cmd, file, args)
			if err != nil {
				return err
			}
			var history []models.ConversationExchange
			if historyFile != "" {
				data, err := os.ReadFile(historyFile)
				if err != nil {
					return fmt.Errorf("read history: %w", err)
				}
				if err := json.Unmarshal(data, &history); err != nil {
					return fmt.Errorf("parse history: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Composer.Compose(question, history))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read question from file")
	cmd.Flags().StringVar(&historyFile, "history", "", "JSON file with [{userQuestion, assistantResponse}]")
	return cmd
}

func processCmd(p *legal.Pipeline) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "process [reply]",
		Short: "Post-process a raw model reply into the chat answer JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, file, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), p.PostProcessor.Process(raw))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read reply from file")
	return cmd
}

func lawsCmd(p *legal.Pipeline) *cobra.Command {
	return &cobra.Command{
		Use:   "laws",
		Short: "List the registered law codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, code := range p.Registry.Codes() {
				law, _ := p.Registry.Resolve(code)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", code, law.Number, law.Name)
			}
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, file string, args []string) (string, error) {
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("no input: pass text as arguments, --file or stdin")
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
