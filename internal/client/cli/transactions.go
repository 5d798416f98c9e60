package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wealflow/wealflow/internal/client/models"
	"github.com/wealflow/wealflow/internal/client/stats"
	"github.com/wealflow/wealflow/internal/filex"
	"github.com/wealflow/wealflow/internal/netx"
)

var errUsage = errors.New("usage")

// List refreshes the cache and prints the transactions in the requested
// window: list [week|month|year|all] or list FROM TO (YYYY-MM-DD).
func (a *App) List(ctx context.Context, args []string) error {
	w, err := a.windowFromArgs(args, stats.All())
	if err != nil {
		return err
	}

	if _, err := a.txs.List(ctx); err != nil {
		printlnFn("Showing cached data:", err)
	}

	items := stats.Filter(a.txs.Items(), w)
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No transactions.")
		return nil
	}
	fmt.Fprintln(a.out, a.transactionsTable(items))
	fmt.Fprintln(a.out, a.styles.muted.Render(fmt.Sprintf("%d transaction(s), %s", len(items), w)))
	return nil
}

// Add prompts for a new transaction. Validation happens before anything
// is sent.
func (a *App) Add(ctx context.Context) error {
	nt, err := a.promptTransaction(models.Transaction{Date: models.NewDate(a.today())})
	if err != nil {
		return err
	}

	created, err := a.txs.Create(ctx, nt)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s %s (%s)\n", created.Kind(), a.amount(created.Amount), created.ID)
	return nil
}

// Edit changes an existing transaction: edit <id>. Empty answers keep the
// current value.
func (a *App) Edit(ctx context.Context, args []string) error {
	cur, err := a.resolve(args, "edit <id>")
	if err != nil {
		return err
	}

	nt, err := a.promptTransaction(cur)
	if err != nil {
		return err
	}
	if err := a.txs.Update(ctx, nt.WithID(cur.ID)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Transaction updated.")
	return nil
}

// Delete removes a transaction after confirmation: delete <id>.
func (a *App) Delete(ctx context.Context, args []string) error {
	tx, err := a.resolve(args, "delete <id>")
	if err != nil {
		return err
	}

	ok, err := Confirm(a.reader, fmt.Sprintf("Delete %q %s on %s?", tx.Description, a.amount(tx.Amount), tx.Date), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.txs.Delete(ctx, tx.ID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Transaction deleted.")
	return nil
}

// Export asks the server for a CSV export: export [FILE]. Without FILE the
// download link is printed, otherwise the CSV is fetched and saved.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errUsage
	}

	url, err := a.api.ExportTransactions(ctx)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Fprintln(a.out, "Download your CSV (link expires soon):")
		fmt.Fprintln(a.out, url)
		return nil
	}

	body, err := netx.Download(ctx, url)
	if err != nil {
		return err
	}
	if err := filex.WriteFile(args[0], body); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s (%d bytes)\n", args[0], len(body))
	return nil
}

func (a *App) promptTransaction(cur models.Transaction) (models.NewTransaction, error) {
	var nt models.NewTransaction

	kind, err := GetTextWithDefault(a.reader, "Type (income/expense)", cur.Kind(), a.out)
	if err != nil {
		return nt, err
	}
	switch strings.ToLower(kind) {
	case "income", "i", "+":
		nt.Type = true
	case "expense", "e", "-":
		nt.Type = false
	default:
		return nt, fmt.Errorf("%w: type must be income or expense", models.ErrInvalidTransaction)
	}

	if nt.Description, err = GetTextWithDefault(a.reader, "Description", cur.Description, a.out); err != nil {
		return nt, err
	}

	amount := ""
	if cur.Amount > 0 {
		amount = decimal.NewFromFloat(cur.Amount).String()
	}
	raw, err := GetTextWithDefault(a.reader, "Amount", amount, a.out)
	if err != nil {
		return nt, err
	}
	if raw != "" {
		d, err := decimal.NewFromString(strings.TrimPrefix(raw, "$"))
		if err != nil {
			return nt, fmt.Errorf("%w: amount %q is not a number", models.ErrInvalidTransaction, raw)
		}
		nt.Amount = d.InexactFloat64()
	}

	if nt.Category, err = GetTextWithDefault(a.reader, "Category", cur.Category, a.out); err != nil {
		return nt, err
	}

	rawDate, err := GetTextWithDefault(a.reader, "Date (YYYY-MM-DD)", cur.Date.String(), a.out)
	if err != nil {
		return nt, err
	}
	if rawDate != "" {
		if nt.Date, err = models.ParseDate(rawDate); err != nil {
			return nt, fmt.Errorf("%w: %w", models.ErrInvalidTransaction, err)
		}
	}
	return nt, nil
}

// resolve finds a cached transaction by id or by a unique id prefix.
func (a *App) resolve(args []string, usage string) (models.Transaction, error) {
	if len(args) != 1 {
		return models.Transaction{}, fmt.Errorf("%w: %s", errUsage, usage)
	}
	id := args[0]

	var matches []models.Transaction
	for _, t := range a.txs.Items() {
		if t.ID == id {
			return t, nil
		}
		if strings.HasPrefix(t.ID, id) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return models.Transaction{}, fmt.Errorf("no transaction with id %q, try 'list' first", id)
	case 1:
		return matches[0], nil
	}
	return models.Transaction{}, fmt.Errorf("id %q is ambiguous (%d matches)", id, len(matches))
}

func (a *App) windowFromArgs(args []string, def stats.Window) (stats.Window, error) {
	switch len(args) {
	case 0:
		return def, nil
	case 1:
		return stats.ParsePeriod(args[0], a.today())
	case 2:
		from, err := models.ParseDate(args[0])
		if err != nil {
			return stats.Window{}, err
		}
		to, err := models.ParseDate(args[1])
		if err != nil {
			return stats.Window{}, err
		}
		return stats.Custom(from, to, a.today()), nil
	}
	return stats.Window{}, fmt.Errorf("%w: [week|month|year|all] or FROM TO", errUsage)
}

func (a *App) transactionsTable(items []models.Transaction) string {
	t := a.styles.table("Date", "Description", "Category", "Amount", "ID")
	for _, tx := range items {
		t.Row(tx.Date.String(), tx.Description, tx.Category, a.signed(tx), shortID(tx.ID))
	}
	return t.String()
}

func (a *App) amount(v float64) string {
	return stats.FormatFloat(v, a.currency())
}

func (a *App) signed(tx models.Transaction) string {
	if tx.IsIncome() {
		return a.styles.income.Render("+" + a.amount(tx.Amount))
	}
	return a.styles.expense.Render("-" + a.amount(tx.Amount))
}

func (a *App) currency() string {
	if a.config == nil || a.config.Currency == "" {
		return stats.DefaultCurrency
	}
	return a.config.Currency
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
