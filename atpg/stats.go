package atpg

// Stats accumulates per-pass counters describing what a pass found and
// did: fault counts, derived implications, propagation steps, and
// cutoffs. Driver.Run returns a Stats value; package report renders it
// when show_opt_info is enabled.
type Stats struct {
	// FwdPropCnt and BwdPropCnt are the total forward and backward
	// propagation steps performed across every phase of the pass.
	FwdPropCnt int
	BwdPropCnt int

	// FaultCnt is the number of fault candidates tested.
	FaultCnt int
	// RedFaultCnt is the number found redundant (and therefore deleted).
	RedFaultCnt int

	// DerivedImplicationsCnt is the number of global-flow implications
	// found and successfully relinked.
	DerivedImplicationsCnt int

	// Cutoffs counts how many times a phase ended via budget exhaustion
	// rather than saturation.
	Cutoffs int
}
