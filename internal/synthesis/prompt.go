package synthesis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"market-research-agent/internal/market"
)

// noData is the literal rendered for any section with nothing to show.
const noData = "Data not available."

const promptTemplate = `You are a genius, insightful financial analyst with years of experience providing a morning market briefing for %s. Your tone should be conversational yet informative, like a pro talking to colleagues.

**Crucial Instructions:**
- **DO NOT HALLUCINATE.** Use ONLY the data provided below. Do not invent facts, figures, or news.
- If data for a section is unavailable, state "Data not available."
- Your analysis must be insightful, connecting different data points.
- The News section is critical. It should be the most in-depth, discussing 15-25 most important and interesting headlines (MAXIMUM 25 HEADLINES) DO NOT LIST MORE THAN 25 HEADLINES UNDER ANY CIRCUMSTANCE. DO NOT include earnings call transcripts in this section, or any other transcripts, we want interesting macro and market headlines.
- Please try to include current prices for the major indices IF AVAILABLE.

TO REPEAT:
- NO EARNINGS CALL TRANSCRIPTS IN THE NEWS SECTION UNDER ANY CIRCUMSTANCE. IF IT HAS "earnings call transcript" OR SIMILAR IN THE HEADLINE DO NOT INCLUDE IT.
- MAXIMUM 25 HEADLINES, CAREFULLY SELECT THE MOST INTERESTING AND IMPORTANT HEADLINES
- Try to keep headlines that are most important and interesting to economic markets and geopolitics.

WHEN DECIDING WHICH HEADLINES TO INCLUDE, CONSIDER THE FOLLOWING:
- Is it a fact or opinion? Prioritize facts
- Is it relevant to the market? Prioritize market-relevant news
- Is it related to geopolitics and macroeconomic trends? Prioritize geopolitical news
- Is it related to technology and innovation? Prioritize technology news
- Is it related to consumer behavior and trends? Prioritize consumer news
- Is it related to the economy and economy? Prioritize economy news
AVOID:
- Headlines that are questions
- Headlines that don't necessarily highlight any market-moving information

**Market Data for your analysis:**
- **Headlines:**
%s
- **Treasury Yields:**
%s
- **Market Benchmarks:**
%s
- **MAJOR MOVERS:**
%s

**CRITICAL: You MUST use these EXACT section headers in your response:**
- **📈 Markets:**
- **📰 Top News:**
- **🚀 Major Movers 📉:**
- **💡 Key Takeaways:**
- **📊 Overall Sentiment:**

Please provide a detailed report in the style of a professional market briefing. Please avoid using charts or diagrams, instead just use markdown / plain speech.
`

// RenderPrompt builds the deterministic briefing prompt from a snapshot.
// Map-backed sections are rendered in sorted key order.
func RenderPrompt(snap market.Snapshot, now time.Time) string {
	return fmt.Sprintf(promptTemplate,
		now.Format("Monday, January 2, 2006"),
		formatHeadlines(snap.Headlines),
		FormatYields(snap.Yields),
		FormatBenchmarks(snap.Benchmarks),
		FormatMovers(snap.Movers),
	)
}

func formatHeadlines(headlines []string) string {
	if len(headlines) == 0 {
		return noData
	}
	return strings.Join(headlines, "\n")
}

// FormatYields renders one "{label}: {rate:.2f}%" line per instrument.
func FormatYields(yields map[string]float64) string {
	if len(yields) == 0 {
		return noData
	}
	labels := make([]string, 0, len(yields))
	for label := range yields {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	lines := make([]string, 0, len(labels))
	for _, label := range labels {
		lines = append(lines, fmt.Sprintf("%s: %.2f%%", label, yields[label]))
	}
	return strings.Join(lines, "\n")
}

// FormatBenchmarks renders one "- {name}: {price} ({changePct}%)" line per
// instrument; an absent price shows as N/A.
func FormatBenchmarks(benchmarks map[string]market.BenchmarkQuote) string {
	if len(benchmarks) == 0 {
		return noData
	}
	names := make([]string, 0, len(benchmarks))
	for name := range benchmarks {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		q := benchmarks[name]
		price := "N/A"
		if q.Price != nil {
			price = strconv.FormatFloat(*q.Price, 'f', -1, 64)
		}
		lines = append(lines, fmt.Sprintf("- %s: %s (%s%%)", name, price, q.ChangePct))
	}
	return strings.Join(lines, "\n")
}

// FormatMovers renders one "- {name} ({symbol}): {changePct} ({category})"
// line per mover, in collection order.
func FormatMovers(movers []market.Mover) string {
	if len(movers) == 0 {
		return noData
	}
	lines := make([]string, 0, len(movers))
	for _, m := range movers {
		lines = append(lines, fmt.Sprintf("- %s (%s): %s (%s)", m.Name, m.Symbol, m.ChangePct, m.Category))
	}
	return strings.Join(lines, "\n")
}
