package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"ingredient-parser/internal/core/ingredient"
	"ingredient-parser/internal/core/ingredient/parser"
	"ingredient-parser/internal/core/ingredient/preprocess"
	"ingredient-parser/internal/core/ingredient/tagger"
	"ingredient-parser/internal/pkg/common"

	"github.com/spf13/cobra"
)

// rootOptions 命令列參數
type rootOptions struct {
	Preprocess   bool
	DeferTagging bool
	Output       string
	TaggerMode   string
	TaggerURL    string
	TaggerAPIKey string
	Timeout      time.Duration
	LogLevel     string
}

// newRootCommand 建立 ingredient-parse 根命令
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ingredient-parse [flags] [sentence...]",
		Short: "Parse recipe ingredient sentences into quantity, unit, name and comment",
		Long: "ingredient-parse normalizes recipe ingredient sentences and extracts their fields.\n" +
			"Sentences are read from the arguments, or one per line from stdin when no argument is given.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Output != "json" && opts.Output != "text" {
				return fmt.Errorf("invalid output format %q (json, text)", opts.Output)
			}
			// 預設不輸出日誌，指定級別時才寫到 stderr
			if opts.LogLevel != "" {
				return common.InitLogger(opts.LogLevel, "")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.Preprocess, "preprocess", false, "print the normalized sentence, tokens and features instead of parsed fields")
	f.BoolVar(&opts.DeferTagging, "defer-tagging", false, "skip part-of-speech tagging when preprocessing")
	f.StringVarP(&opts.Output, "output", "o", "json", "output format (json, text)")
	f.StringVar(&opts.TaggerMode, "tagger", tagger.ModeRule, "part-of-speech tagger (rule, remote, none)")
	f.StringVar(&opts.TaggerURL, "tagger-url", "", "remote tagger base URL")
	f.StringVar(&opts.TaggerAPIKey, "tagger-api-key", "", "remote tagger API key")
	f.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "overall timeout")
	f.StringVar(&opts.LogLevel, "log-level", "", "enable logging at the given level (debug, info, warn, error)")

	return cmd
}

// run 解析每個句子並輸出結果
func run(cmd *cobra.Command, opts *rootOptions, args []string) error {
	sentences := args
	if len(sentences) == 0 {
		var err error
		sentences, err = readLines(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}
	if len(sentences) == 0 {
		return common.ErrEmptySentence
	}

	posTagger, err := tagger.New(opts.TaggerMode, opts.TaggerURL, opts.TaggerAPIKey, opts.Timeout)
	if err != nil {
		return fmt.Errorf("failed to create tagger: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	defer cancel()

	out := cmd.OutOrStdout()
	for _, sentence := range sentences {
		if opts.Preprocess {
			err = printPreprocessed(ctx, out, opts, posTagger, sentence)
		} else {
			err = printParsed(ctx, out, opts, posTagger, sentence)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func printParsed(ctx context.Context, w io.Writer, opts *rootOptions, t tagger.Tagger, sentence string) error {
	parsed := parser.ParseIngredient(ctx, sentence, preprocess.WithTagger(t))

	if opts.Output == "text" {
		_, err := fmt.Fprintf(w, "sentence: %s\nquantity: %s\nunit: %s\nname: %s\ncomment: %s\n\n",
			parsed.Sentence, parsed.Quantity, parsed.Unit, parsed.Name, parsed.Comment)
		return err
	}

	data, err := common.ToIndentedJSON(parsed)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, data)
	return err
}

func printPreprocessed(ctx context.Context, w io.Writer, opts *rootOptions, t tagger.Tagger, sentence string) error {
	popts := []preprocess.Option{preprocess.WithTagger(t)}
	if opts.DeferTagging {
		popts = append(popts, preprocess.WithDeferTagging())
	}
	p := preprocess.New(ctx, sentence, popts...)

	if opts.Output == "text" {
		_, err := fmt.Fprintf(w, "%s\n\n", p)
		return err
	}

	result, err := ingredient.NewPreprocessResult(p)
	if err != nil {
		return err
	}
	data, err := common.ToIndentedJSON(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, data)
	return err
}

// readLines 讀取非空白行
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return lines, nil
}
