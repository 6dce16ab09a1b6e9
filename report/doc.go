// Package report renders the per-pass atpg.Stats summary printed when the
// show_opt_info configuration flag is set: labeled fields with a bold
// header, dim separators, and a color keyed to whether any phase hit its
// propagation budget (cutoffs).
package report
