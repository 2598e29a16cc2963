// finance is a terminal client for recording income and expense
// transactions against the finance manager API.
//
// With no command it opens an interactive view of the user's
// transactions. The list, add, delete and show commands perform the same
// operations non-interactively.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/Dan9191/finance-client/internal/config"
	"github.com/Dan9191/finance-client/internal/integrations/financeapi"
	"github.com/Dan9191/finance-client/internal/models"
	"github.com/Dan9191/finance-client/internal/scheduler"
	"github.com/Dan9191/finance-client/internal/service"
	"github.com/Dan9191/finance-client/internal/tui"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	// Load configuration; validation waits until flags have been applied.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flagSet := pflag.NewFlagSet("finance", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	cfg.AddFlags(flagSet)
	flagSet.BoolP("help", "h", false, "show help")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := financeapi.NewClient(cfg, logger)
	view := service.NewView(client, cfg.UserID, logger)

	rest := flagSet.Args()
	if len(rest) == 0 {
		return runViewer(ctx, cfg, view, logger)
	}

	command, commandArgs := rest[0], rest[1:]
	switch command {
	case "list":
		return runList(ctx, view, stdout)
	case "add":
		return runAdd(ctx, view, commandArgs, stdout)
	case "delete":
		return runDelete(ctx, view, commandArgs, stdout)
	case "show":
		return runShow(ctx, client, commandArgs, stdout)
	}
	return fmt.Errorf("unknown command %q (want list, add, delete or show)", command)
}

// newLogger configures logrus the same way for every command. Logs go to
// cfg.LogFile when set, since the interactive view owns the terminal.
func newLogger(cfg *config.Config) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.LogFile == "" {
		logger.SetOutput(os.Stderr)
		return logger, func() {}, nil
	}
	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(file)
	return logger, func() { file.Close() }, nil
}

func runViewer(ctx context.Context, cfg *config.Config, view *service.View, logger *logrus.Logger) error {
	model := tui.NewModel(ctx, view)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if cfg.RefreshSchedule != "" {
		refresher, err := scheduler.NewRefresher(cfg.RefreshSchedule, func() {
			program.Send(tui.RefreshMsg{})
		}, logger)
		if err != nil {
			return err
		}
		refresher.Start()
		defer refresher.Stop()
	}

	logger.WithField("api_url", cfg.APIURL).Info("Starting transaction viewer")
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func runList(ctx context.Context, view *service.View, stdout io.Writer) error {
	if err := view.LoadTransactions(ctx); err != nil {
		return err
	}
	printTransactions(stdout, view.Snapshot().Transactions)
	return nil
}

func runAdd(ctx context.Context, view *service.View, args []string, stdout io.Writer) error {
	var amount, category, description, rawType string
	flagSet := pflag.NewFlagSet("add", pflag.ContinueOnError)
	flagSet.StringVar(&amount, "amount", "", "amount in currency units")
	flagSet.StringVar(&category, "category", "", "category, e.g. Food")
	flagSet.StringVar(&description, "description", "", "free-text description")
	flagSet.StringVar(&rawType, "type", string(models.TypeExpense), "income or expense")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	transactionType, err := models.ParseTransactionType(rawType)
	if err != nil {
		return err
	}

	view.OpenCreateDialog()
	if err := view.SetAmount(amount); err != nil {
		return err
	}
	view.SetCategory(category)
	view.SetDescription(description)
	view.SetType(transactionType)

	if err := view.SubmitTransaction(ctx); err != nil {
		return err
	}
	printTransactions(stdout, view.Snapshot().Transactions)
	return nil
}

func runDelete(ctx context.Context, view *service.View, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: finance delete <transaction-id>")
	}
	if err := view.DeleteTransaction(ctx, models.TransactionID(args[0])); err != nil {
		return err
	}
	printTransactions(stdout, view.Snapshot().Transactions)
	return nil
}

func runShow(ctx context.Context, client *financeapi.Client, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: finance show <transaction-id>")
	}
	transaction, err := client.GetTransaction(ctx, models.TransactionID(args[0]))
	if err != nil {
		if financeapi.IsNotFound(err) {
			return fmt.Errorf("transaction %s not found", args[0])
		}
		return err
	}
	printTransactions(stdout, []models.Transaction{*transaction})
	if transaction.Date != "" {
		fmt.Fprintf(stdout, "    %s\n", transaction.Date)
	}
	return nil
}

func printTransactions(w io.Writer, transactions []models.Transaction) {
	if len(transactions) == 0 {
		fmt.Fprintln(w, "No transactions")
		return
	}
	for _, t := range transactions {
		fmt.Fprintf(w, "%-6s %s\n       %s\n", t.ID, t.Title(), t.AmountLabel())
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `finance: record income and expense transactions.

Usage:
  finance [flags]                     open the interactive view
  finance [flags] list                print all transactions
  finance [flags] add --amount 12.5 --category Food --description Lunch [--type expense]
  finance [flags] delete <id>         delete a transaction and print the rest
  finance [flags] show <id>           print one transaction

Flags:
%s
Environment: API_URL, USER_ID, LOG_LEVEL, LOG_FILE, HTTP_TIMEOUT,
REFRESH_SCHEDULE (cron spec, e.g. "@every 30s"). A .env file in the
working directory is loaded first.
`, flagSet.FlagUsages())
}
