package check

// Options configures the standard check list.
type Options struct {
	// SourceDir is the subdirectory the static-analysis scan covers,
	// relative to the target project.
	SourceDir string
	// TestEntry is the test suite entry point, relative to the target
	// project.
	TestEntry string
	// Report is where the static-analysis JSON artifact is written,
	// overwritten every round.
	Report string
}

// Standard returns the fixed ordered list of checks a round executes:
// dependency scan, static analysis, test suite. The order is part of the
// reporting contract and never changes at runtime.
func Standard(o Options) []Checker {
	return []Checker{
		NewSafety(),
		NewBandit(o.SourceDir, o.Report),
		NewPytest(o.TestEntry),
	}
}
