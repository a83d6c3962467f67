package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iho/relbalance/internal/adapter/csvsource"
	"github.com/iho/relbalance/internal/adapter/http/dto"
	"github.com/iho/relbalance/internal/usecase"
)

const (
	sourceFile     = "file"
	sourcePostgres = "postgres"

	outputText = "text"
	outputJSON = "json"
)

type calcOptions struct {
	account string
	from    string
	to      string
	output  string
	source  string
}

func newCalcCmd() *cobra.Command {
	opts := &calcOptions{}

	cmd := &cobra.Command{
		Use:   "calc [transactions.csv]",
		Short: "Calculate the relative balance of an account",
		Long: `Calculate the relative balance of an account between two dates (exclusive).
Values not given as flags are read from standard input.`,
		Example: `  relbalance calc transactions.csv --account ACC334455 \
    --from "20/10/2018 12:00:00" --to "20/10/2018 19:00:00"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.account, "account", "", "Account ID")
	cmd.Flags().StringVar(&opts.from, "from", "", "Start of the window (exclusive)")
	cmd.Flags().StringVar(&opts.to, "to", "", "End of the window (exclusive)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputText, "Output format: text or json")
	cmd.Flags().StringVar(&opts.source, "source", sourceFile, "Transaction source: file or postgres")

	return cmd
}

func runCalc(cmd *cobra.Command, opts *calcOptions, args []string) error {
	if opts.output != outputText && opts.output != outputJSON {
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	cfg, log, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	d, err := newDeps(ctx, cfg, log, depsOptions{postgres: opts.source == sourcePostgres})
	if err != nil {
		return err
	}
	defer d.Close()

	var source usecase.TransactionSource
	switch opts.source {
	case sourceFile:
		path := cfg.TransactionsFile
		if len(args) > 0 {
			path = args[0]
		}
		fileSource, err := csvsource.NewFileSource(path, cfg.DateLayout)
		if err != nil {
			return err
		}
		source = fileSource
	case sourcePostgres:
		if source, err = d.postgresSource(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown source %q", opts.source)
	}

	layoutHint := displayLayout(cfg.DateLayout)
	p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	p.ask(&opts.account, "Enter the account id: ")
	p.ask(&opts.from, fmt.Sprintf("Enter the from date (%s): ", layoutHint))
	p.ask(&opts.to, fmt.Sprintf("Enter the to date (%s): ", layoutHint))

	out, err := d.balance.Calculate(ctx, usecase.CalculateInput{
		AccountID: opts.account,
		From:      opts.from,
		To:        opts.to,
	}, source)
	if err != nil {
		return err
	}

	if opts.output == outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(dto.BalanceFromOutput(out))
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Relative balance for the period is: %s\n", out.Balance.Display())
	fmt.Fprintf(w, "Number of transactions included is: %d\n", out.Balance.TransactionCount)

	return nil
}

// prompter reads missing values line by line from one shared reader.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prompts for *value unless it is already set. EOF leaves it empty.
func (p *prompter) ask(value *string, prompt string) {
	if *value != "" {
		return
	}

	fmt.Fprint(p.out, prompt)
	line, _ := p.in.ReadString('\n')
	*value = strings.TrimSpace(line)
}

// displayLayout renders a Go time layout in the dd/MM/yyyy notation users expect.
func displayLayout(layout string) string {
	return strings.NewReplacer(
		"2006", "yyyy",
		"01", "MM",
		"02", "dd",
		"15", "HH",
		"04", "mm",
		"05", "ss",
	).Replace(layout)
}
