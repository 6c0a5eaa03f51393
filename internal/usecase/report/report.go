// Package report renders the final price summary text and enforces the
// publisher's character budget.
package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/mercaprice/mercaprice-backend/internal/domain"
)

const (
	// The header block is preserved verbatim by truncation: title, spacer,
	// since-baseline line and the aggregate line.
	headerLines = 4

	footerText = "#Mercadona #Precios #Inflación"

	noChangesPlaceholder = "Sin cambios relevantes"
	noHistoryPlaceholder = "Sin histórico suficiente"

	ellipsis = "…"

	// Below this many characters of body room the greedy pass cannot fit
	// anything useful and the degenerate header+footer path takes over.
	minBodyRoom = 8
)

// WeeklySummary counts products that rose and fell since the week-ago
// snapshot.
type WeeklySummary struct {
	Risers  int
	Fallers int
}

// Input is everything the formatter needs for one report. Weekly is nil when
// no week-ago snapshot was resolvable; the weekly block then renders its
// insufficient-history placeholder.
type Input struct {
	Region          string
	BaselineLabel   string
	AggregateChange decimal.Decimal
	Gainers         []domain.DiffRecord
	Losers          []domain.DiffRecord
	Weekly          *WeeklySummary
}

// Render composes the report sections in fixed order and, when budget > 0,
// truncates the result to at most budget characters. A budget of zero
// disables truncation.
func Render(in Input, budget int) string {
	lines := compose(in)
	full := strings.Join(lines, "\n") + "\n\n" + footerText
	if budget <= 0 || runeLen(full) <= budget {
		return full
	}
	return truncate(lines, budget)
}

func compose(in Input) []string {
	lines := []string{
		"📊 Precios Mercadona · " + displayRegion(in.Region),
		"",
		fmt.Sprintf("Desde %s:", in.BaselineLabel),
		"📈 Precio medio " + signedPct(in.AggregateChange, 4),
		"",
		fmt.Sprintf("⬆️ Top subidas desde %s:", in.BaselineLabel),
	}
	lines = append(lines, moverLines(in.Gainers)...)
	lines = append(lines, "", fmt.Sprintf("⬇️ Top bajadas desde %s:", in.BaselineLabel))
	lines = append(lines, moverLines(in.Losers)...)
	lines = append(lines, "", "Última semana:")
	if in.Weekly == nil {
		lines = append(lines, noHistoryPlaceholder)
	} else {
		lines = append(lines,
			fmt.Sprintf("🔺 %d productos suben", in.Weekly.Risers),
			fmt.Sprintf("🔻 %d productos bajan", in.Weekly.Fallers),
		)
	}
	return lines
}

func moverLines(movers []domain.DiffRecord) []string {
	if len(movers) == 0 {
		return []string{noChangesPlaceholder}
	}
	out := make([]string, 0, len(movers))
	for _, m := range movers {
		out = append(out, fmt.Sprintf("• %s (%s): %s€ → %s€",
			m.Name, signedPct(m.PctChange, 1),
			m.PriceBefore.StringFixed(2), m.PriceAfter.StringFixed(2)))
	}
	return out
}

// truncate shortens the composed lines to the budget while keeping the
// header block and footer verbatim. The body is cut to a whole-line prefix,
// never reordered or split mid-line; only the degenerate path (no room for
// any body) falls back to a hard cut with a trailing ellipsis.
func truncate(lines []string, budget int) string {
	header := strings.Join(lines[:headerLines], "\n")
	footerBlock := "\n\n" + footerText

	available := budget - runeLen(header) - runeLen(footerBlock)
	if available < minBodyRoom {
		return hardTruncate(header+footerBlock, budget)
	}

	var body strings.Builder
	used := 0
	for _, line := range lines[headerLines:] {
		cost := 1 + runeLen(line) // leading newline
		if used+cost > available {
			break
		}
		body.WriteByte('\n')
		body.WriteString(line)
		used += cost
	}

	out := header + body.String() + footerBlock
	if runeLen(out) > budget {
		return hardTruncate(out, budget)
	}
	return out
}

func hardTruncate(s string, budget int) string {
	if runeLen(s) <= budget {
		return s
	}
	r := []rune(s)
	return string(r[:budget-1]) + ellipsis
}

// signedPct renders a percentage with an explicit sign, matching the
// published format: +0.0000% for the aggregate line, +12.3% for movers.
func signedPct(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	if !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s + "%"
}

// displayRegion turns a region marker like "castilla_la_mancha" into a
// headline form.
func displayRegion(region string) string {
	words := strings.Split(strings.ReplaceAll(region, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
