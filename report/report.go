package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/maximaximal/limboole/atpg"
)

// OptInfo renders one pass's atpg.Stats to w as a show_opt_info-style
// diagnostic. header labels which changed subformula the stats belong to
// (a caller-chosen string, e.g. an LCA node ID).
func OptInfo(w io.Writer, header string, stats atpg.Stats) {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	good := color.New(color.FgGreen).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", bold("opt-info:"), header)
	fmt.Fprintf(w, "  %s %d tested, %d redundant\n", dim("faults"), stats.FaultCnt, stats.RedFaultCnt)
	fmt.Fprintf(w, "  %s %d\n", dim("implications derived"), stats.DerivedImplicationsCnt)
	fmt.Fprintf(w, "  %s fwd=%d bwd=%d\n", dim("propagation steps"), stats.FwdPropCnt, stats.BwdPropCnt)

	if stats.Cutoffs > 0 {
		fmt.Fprintf(w, "  %s\n", warn(fmt.Sprintf("cutoffs: %d (budget exhausted)", stats.Cutoffs)))
	} else {
		fmt.Fprintf(w, "  %s\n", good("no cutoffs"))
	}
}

// Summary renders a one-line progress indicator, suitable for streaming
// output across many passes.
func Summary(stats atpg.Stats) string {
	var b strings.Builder
	arrow := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(&b, "%s deleted=%d relinked=%d cutoffs=%d",
		arrow("pass"), stats.RedFaultCnt, stats.DerivedImplicationsCnt, stats.Cutoffs)
	return b.String()
}
