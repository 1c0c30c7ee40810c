package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"StockSentinel/internal/config"
	"StockSentinel/internal/model"
)

// prompter asks for missing inputs on an interactive terminal.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *prompter) symbols() ([]string, error) {
	for {
		text, err := p.ask("Enter stock ticker symbols separated by commas (e.g., TSLA, AAPL, AMZN): ")
		if err != nil {
			return nil, err
		}
		if syms := config.ParseSymbols(text); len(syms) > 0 {
			return syms, nil
		}
		fmt.Fprintln(p.out, "Please enter at least one ticker symbol.")
	}
}

func (p *prompter) threshold(question string) (float64, error) {
	for {
		text, err := p.ask(question)
		if err != nil {
			return 0, err
		}
		v, err := config.ParseThreshold(text)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(p.out, "Invalid number %q, try again.\n", text)
	}
}

// thresholds fills every threshold whose name is not in set.
func (p *prompter) thresholds(th *model.Thresholds, set map[string]bool) error {
	questions := []struct {
		flag     string
		question string
		dst      *float64
	}{
		{"rsi-low", "Enter RSI lower limit for alerts (e.g., 30 for oversold): ", &th.RSILow},
		{"rsi-high", "Enter RSI upper limit for alerts (e.g., 70 for overbought): ", &th.RSIHigh},
		{"price-low", "Enter price lower limit for alerts: ", &th.PriceLow},
		{"price-high", "Enter price upper limit for alerts: ", &th.PriceHigh},
	}
	for _, q := range questions {
		if set[q.flag] {
			continue
		}
		v, err := p.threshold(q.question)
		if err != nil {
			return err
		}
		*q.dst = v
	}
	return nil
}
