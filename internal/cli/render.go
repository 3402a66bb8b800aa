package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/HartBrook/promptcraft/internal/optimize"
)

// maxTableText is the rune width of the prompt column in the comparison table.
const maxTableText = 60

// renderOutcome prints the notice attached to a non-OK outcome.
func renderOutcome(w io.Writer, out optimize.Outcome) {
	switch out.Kind {
	case optimize.KindEmptyInput, optimize.KindNoSelection:
		printWarning(w, "%s", out.Message)
	case optimize.KindBackendError:
		printError(w, "%s", out.Message)
	}
}

// renderPrompts prints the numbered list of optimized prompts, marking the selection.
func renderPrompts(w io.Writer, snap optimize.Snapshot) {
	if len(snap.Prompts) == 0 {
		fmt.Fprintln(w, dim("Enter a prompt and optimize to begin."))
		return
	}

	fmt.Fprintln(w, bold("Optimized Prompts"))
	for i, p := range snap.Prompts {
		marker := "  "
		if p == snap.Selected {
			marker = success("▸ ")
		}
		fmt.Fprintf(w, "%s%d. %s\n", marker, i+1, p)
	}
}

// renderTable prints the side-by-side comparison table.
func renderTable(w io.Writer, rows []optimize.Row) {
	if len(rows) == 0 {
		return
	}

	fmt.Fprintln(w, bold("Prompt Comparison"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tWords\tComplexity\tTokens\tPrompt")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\n", r.Index, r.WordCount, r.ComplexityScore, r.Tokens, truncate(r.Text, maxTableText))
	}
	_ = tw.Flush()
}

// renderExplanation prints the explanation for the selected prompt.
func renderExplanation(w io.Writer, snap optimize.Snapshot) {
	if snap.Explanation == "" {
		return
	}

	fmt.Fprintln(w, bold("Explanation"))
	fmt.Fprintln(w, snap.Explanation)

	stats := snap.Stats()
	fmt.Fprintln(w, dim(fmt.Sprintf("~%d → ~%d tokens (%+.0f%%)", stats.Before, stats.After, stats.PercentChange())))
}

// truncate shortens s to at most n runes, ending in an ellipsis when cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
