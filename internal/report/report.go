// Package report renders a trailing-month summary for people: a plain-text
// table for terminals and a PNG bar chart.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/wcharczuk/go-chart/v2"

	"fintrack/internal/summary"
)

// ErrNothingToChart is returned by ChartPNG when the window has neither
// income nor expenses.
var ErrNothingToChart = errors.New("report: no income or expenses in window")

// Text writes the summary totals, followed by one row per category when
// categories is non-empty.
func Text(w io.Writer, s summary.Summary, categories []summary.CategorySpend) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "Period\t%s .. %s\t\n", s.From, s.To)
	fmt.Fprintf(tw, "Total income\t%s\t\n", summary.Format(s.TotalIncome))
	fmt.Fprintf(tw, "Total expenses\t%s\t\n", summary.Format(s.TotalExpenses))
	fmt.Fprintf(tw, "Balance\t%s\t\n", summary.Format(s.Balance()))

	if len(categories) > 0 {
		fmt.Fprintln(tw, "\t\t")
		fmt.Fprintln(tw, "Category\tBudget\tSpent\tRemaining\t")
		for _, c := range categories {
			flag := ""
			if c.OverBudget {
				flag = " !"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s%s\t\n",
				c.Name, summary.Format(c.Budget), summary.Format(c.Spent), summary.Format(c.Remaining), flag)
		}
	}

	return tw.Flush()
}

// ChartPNG renders income against expenses as a two-bar PNG chart.
func ChartPNG(s summary.Summary) ([]byte, error) {
	income, _ := s.TotalIncome.Float64()
	expenses, _ := s.TotalExpenses.Float64()
	if income == 0 && expenses == 0 {
		return nil, ErrNothingToChart
	}

	top := income
	if expenses > top {
		top = expenses
	}

	graph := chart.BarChart{
		Title: fmt.Sprintf("%s .. %s", s.From, s.To),
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:    800,
		Height:   500,
		BarWidth: 120,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			// Fixed range so equal bars still render.
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: []chart.Value{
			{
				Label: "Income " + summary.Format(s.TotalIncome),
				Value: income,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					FillColor:   chart.ColorGreen,
				},
			},
			{
				Label: "Expenses " + summary.Format(s.TotalExpenses),
				Value: expenses,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					FillColor:   chart.ColorRed,
				},
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render summary chart: %w", err)
	}
	return buffer.Bytes(), nil
}
