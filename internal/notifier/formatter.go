package notifier

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"StockSentinel/internal/model"
	"StockSentinel/internal/report"
)

// AlertLine renders one alert as a single line of plain text.
func AlertLine(evt model.AlertEvent) string {
	th := strconv.FormatFloat(evt.Threshold, 'f', -1, 64)
	switch evt.Kind {
	case model.AlertRSILow:
		return fmt.Sprintf("ALERT: RSI for %s is %s (Below %s - Oversold)", evt.Symbol, report.Fixed(evt.Observed), th)
	case model.AlertRSIHigh:
		return fmt.Sprintf("ALERT: RSI for %s is %s (Above %s - Overbought)", evt.Symbol, report.Fixed(evt.Observed), th)
	case model.AlertPriceLow:
		return fmt.Sprintf("ALERT: Current price for %s is $%s (Below $%s)", evt.Symbol, report.Fixed(evt.Observed), report.Fixed(evt.Threshold))
	case model.AlertPriceHigh:
		return fmt.Sprintf("ALERT: Current price for %s is $%s (Above $%s)", evt.Symbol, report.Fixed(evt.Observed), report.Fixed(evt.Threshold))
	default:
		return fmt.Sprintf("ALERT: %s for %s at %s", evt.Kind, evt.Symbol, report.Fixed(evt.Observed))
	}
}

// NoticeLine renders one notice as a single line of plain text.
func NoticeLine(n model.Notice) string {
	var line string
	switch n.Kind {
	case model.NoticeNoRSI:
		line = fmt.Sprintf("No RSI data available for %s", n.Symbol)
	case model.NoticeNoPrice:
		line = fmt.Sprintf("No price data available for %s", n.Symbol)
	default:
		line = fmt.Sprintf("%s for %s", n.Kind, n.Symbol)
	}
	if n.Reason != "" {
		line += " (" + n.Reason + ")"
	}
	return line + "."
}

// FormatAlerts formats alerts and notices as an HTML message. Returns ""
// when there is nothing to report.
func FormatAlerts(alerts []model.AlertEvent, notices []model.Notice) string {
	if len(alerts) == 0 && len(notices) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("🚨 <b>Alerts:</b>\n")
	for _, evt := range alerts {
		b.WriteString(html.EscapeString(AlertLine(evt)))
		b.WriteString("\n")
	}
	for _, n := range notices {
		b.WriteString(html.EscapeString(NoticeLine(n)))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatAnalysis formats the result of one instrument as an HTML message.
func FormatAnalysis(a *model.InstrumentAnalysis) string {
	row := report.NewRow(a)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> %s\n\n", html.EscapeString(row.Symbol), html.EscapeString(row.Name)))

	b.WriteString(fmt.Sprintf("Current price: %s", report.FormatPrice(row.Price)))
	if row.PriceSource == model.PriceFromLastClose {
		b.WriteString(" (latest close)")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("50-Day MA: %s | 200-Day MA: %s\n", report.FormatMoney(row.MA50), report.FormatMoney(row.MA200)))
	b.WriteString(fmt.Sprintf("RSI: %s\n", report.FormatRSI(row.RSI)))
	b.WriteString(fmt.Sprintf("52w range: %s - %s (position %s)\n\n",
		report.FormatPrice(row.Low52w), report.FormatPrice(row.High52w), report.FormatPercent(row.Position52w)))

	b.WriteString(fmt.Sprintf("<b>Decision for %s:</b> %s\n", html.EscapeString(row.Symbol), html.EscapeString(row.Classification.Label())))
	b.WriteString(fmt.Sprintf("Action: %s\n", row.Classification.Action()))

	if alerts := FormatAlerts(a.Alerts, a.Notices); alerts != "" {
		b.WriteString("\n")
		b.WriteString(alerts)
	}
	return b.String()
}

// FormatSummary formats the summary of a whole run as an HTML message.
func FormatSummary(s report.Summary, at time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>StockSentinel summary</b> | %s\n\n", at.Format("2006-01-02")))

	for _, r := range s.Rows {
		b.WriteString(fmt.Sprintf("<b>%s</b> %s | RSI %s | %s\n",
			html.EscapeString(r.Symbol),
			report.FormatPrice(r.Price),
			report.FormatRSI(r.RSI),
			html.EscapeString(r.Classification.Label()),
		))
	}
	if len(s.Rows) == 0 {
		b.WriteString("No instruments analysed.\n")
	}

	if len(s.Failures) > 0 {
		b.WriteString("\n⚠️ <b>Failed:</b>\n")
		for _, f := range s.Failures {
			msg := "unknown error"
			if f.Err != nil {
				msg = f.Err.Error()
			}
			b.WriteString(fmt.Sprintf("%s: %s\n", html.EscapeString(f.Symbol), html.EscapeString(msg)))
		}
	}
	return b.String()
}

var tagPattern = regexp.MustCompile(`</?[a-z]+>`)

// PlainText strips the HTML markup of a formatted message for console output.
func PlainText(msg string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(msg, ""))
}
