package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
)

// ErrInputClosed is returned when input ends before an answer is given.
var ErrInputClosed = errors.New("input terminated")

// Prompter asks the user questions on a terminal.
type Prompter struct {
	reader *NonBlockingReader
	writer io.Writer
}

// NewPrompter creates a prompter. Nil arguments fall back to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	line, err := p.reader.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return "", ErrInputClosed
	}
	return line, err
}

func (p *Prompter) complain(message string) {
	if _, err := fmt.Fprintln(p.writer, FormatError(message)); err != nil {
		slog.Warn("Failed to write error message", "error", err)
	}
}

// Ask prompts for free text. An empty answer returns def.
func (p *Prompter) Ask(ctx context.Context, prompt, def string) (string, error) {
	label := prompt
	if def != "" {
		label = fmt.Sprintf("%s [%s]", prompt, def)
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskDecimal prompts until the answer parses as a decimal. An empty answer
// returns def.
func (p *Prompter) AskDecimal(ctx context.Context, prompt string, def decimal.Decimal) (decimal.Decimal, error) {
	for {
		answer, err := p.Ask(ctx, prompt, def.String())
		if err != nil {
			return decimal.Zero, err
		}

		value, err := decimal.NewFromString(strings.ReplaceAll(answer, ",", ""))
		if err == nil {
			return value, nil
		}
		p.complain(fmt.Sprintf("%q is not a number. Please try again.", answer))
	}
}

// Choose prompts until the answer is one of choices, case-insensitively.
func (p *Prompter) Choose(ctx context.Context, prompt string, choices []string, def string) (string, error) {
	label := fmt.Sprintf("%s (%s)", prompt, strings.Join(choices, "/"))
	for {
		answer, err := p.Ask(ctx, label, def)
		if err != nil {
			return "", err
		}

		for _, c := range choices {
			if strings.EqualFold(answer, c) {
				return c, nil
			}
		}
		p.complain("Invalid choice. Please try again.")
	}
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" (y/N)", "")
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// NewImportProgress returns a progress bar for importing total statement lines.
func NewImportProgress(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing expenses...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
