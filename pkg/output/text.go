package output

import (
	"context"
	"fmt"
	"io"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	s := report.Summary
	_, err := fmt.Fprintf(w, "joblog: %d file(s), %d completed, %d warning(s), %d severe, %d orphan(s), %d unfinished, %d skipped\n",
		s.Files, s.Completed, s.Warnings, s.Severe, s.Orphans, s.Unfinished, s.Skipped)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== joblog Report ===")
	fmt.Fprintf(w, "Thresholds: warning > %s, error > %s\n",
		report.Metadata.WarningThreshold, report.Metadata.ErrorThreshold)
	fmt.Fprintln(w)

	for i := range report.Files {
		f.formatFile(&report.Files[i], w)
	}

	s := report.Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d file(s), %d line(s), %d completed, %d warning(s), %d severe\n",
		s.Files, s.Lines, s.Completed, s.Warnings, s.Severe)
	_, err := fmt.Fprintf(w, "Problems: %d orphan END(s), %d unfinished, %d skipped line(s), %d read failure(s)\n",
		s.Orphans, s.Unfinished, s.Skipped, s.ReadFailures)
	return err
}

func (f *TextFormatter) formatFile(file *FileReport, w io.Writer) {
	s := file.Stats
	fmt.Fprintf(w, "[FILE] %s\n", file.Source)
	if s.ReadFailed {
		fmt.Fprintln(w, "  Read failed; results are partial")
	}
	fmt.Fprintf(w, "  Lines: %d, completed: %d, warnings: %d, severe: %d\n",
		s.LinesRead, s.Completed, s.Warnings, s.Severe)

	if len(file.Unfinished) > 0 {
		fmt.Fprintf(w, "  Unfinished: %d job(s)\n", len(file.Unfinished))
		for _, key := range file.Unfinished {
			fmt.Fprintf(w, "  - %s\n", key)
		}
	}

	if f.opts.Verbose {
		if s.Ignored > 0 || s.Restarted > 0 {
			fmt.Fprintf(w, "  Ignored: %d, restarted: %d\n", s.Ignored, s.Restarted)
		}
		for _, m := range file.Findings {
			fmt.Fprintf(w, "    %s\n", m)
		}
	}

	fmt.Fprintln(w)
}
