package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wealflow/wealflow/internal/client/models"
	"github.com/wealflow/wealflow/internal/client/stats"
)

const (
	dashboardTopCategories = 3
	dashboardRecent        = 5
)

// Dashboard prints the current month at a glance: totals, the biggest
// expense categories and the latest transactions.
func (a *App) Dashboard(ctx context.Context) error {
	all := a.items(ctx)
	w := stats.Month(a.today())
	month := stats.Filter(all, w)

	fmt.Fprintln(a.out, a.styles.title.Render("Dashboard · "+w.String()))
	a.printSummary(stats.Summarize(month))

	if spending := stats.ByCategory(month, false); len(spending) > 0 {
		fmt.Fprintln(a.out, a.styles.title.Render("Top spending"))
		a.printCategories(spending.Top(dashboardTopCategories), spending.Sum())
	}

	if recent := stats.Recent(all, dashboardRecent); len(recent) > 0 {
		fmt.Fprintln(a.out, a.styles.title.Render("Recent"))
		fmt.Fprintln(a.out, a.transactionsTable(recent))
	}
	return nil
}

// Stats prints totals and per-category breakdowns: stats [period] or
// stats FROM TO. The default window is the current month.
func (a *App) Stats(ctx context.Context, args []string) error {
	w, err := a.windowFromArgs(args, stats.Month(a.today()))
	if err != nil {
		return err
	}
	txs := stats.Filter(a.items(ctx), w)

	fmt.Fprintln(a.out, a.styles.title.Render("Statistics · "+w.String()))
	a.printSummary(stats.Summarize(txs))

	for _, income := range []bool{false, true} {
		cats := stats.ByCategory(txs, income)
		if len(cats) == 0 {
			continue
		}
		label := "Expenses by category"
		if income {
			label = "Income by category"
		}
		fmt.Fprintln(a.out, a.styles.title.Render(label))
		a.printCategories(cats, cats.Sum())
	}
	return nil
}

// items refreshes the cache, falling back to cached data when the server
// cannot be reached.
func (a *App) items(ctx context.Context) []models.Transaction {
	if _, err := a.txs.List(ctx); err != nil {
		printlnFn("Showing cached data:", err)
	}
	return a.txs.Items()
}

func (a *App) printSummary(s stats.Summary) {
	cur := a.currency()
	balance := stats.FormatAmount(s.Balance, cur)
	if s.Balance.IsNegative() {
		balance = a.styles.expense.Render(balance)
	} else {
		balance = a.styles.income.Render(balance)
	}

	lines := []string{
		fmt.Sprintf("Income:       %s", a.styles.income.Render(stats.FormatAmount(s.Income, cur))),
		fmt.Sprintf("Expenses:     %s", a.styles.expense.Render(stats.FormatAmount(s.Expenses, cur))),
		fmt.Sprintf("Balance:      %s", balance),
		fmt.Sprintf("Savings rate: %s", stats.FormatPercent(s.SavingsRate)),
		a.styles.muted.Render(fmt.Sprintf("%d transaction(s)", s.Count)),
	}
	fmt.Fprintln(a.out, strings.Join(lines, "\n"))
}

// printCategories shows each category's share of total.
func (a *App) printCategories(cats stats.Categories, total decimal.Decimal) {
	t := a.styles.table("Category", "Amount", "Share", "Count")
	for _, c := range cats {
		t.Row(c.Category, stats.FormatAmount(c.Total, a.currency()), stats.FormatPercent(c.Share(total)), fmt.Sprint(c.Count))
	}
	fmt.Fprintln(a.out, t.String())
}
