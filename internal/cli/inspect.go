package cli

import (
	"fmt"
	"io"

	"github.com/studiowebux/harsample/internal/converter"
	"github.com/studiowebux/harsample/internal/report"
	"github.com/studiowebux/harsample/internal/sampling"
)

// Inspect summarizes a generated test case file by response content category
func Inspect(path string, w io.Writer) error {
	cases, err := converter.LoadTestCases(path)
	if err != nil {
		return err
	}
	fmt.Fprint(w, report.RenderInspection(cases))
	return nil
}

// Categorize prints the category of each content-type label
func Categorize(labels []string, categorizer *sampling.Categorizer, w io.Writer) {
	for _, label := range labels {
		var c sampling.Category
		if categorizer != nil {
			c = categorizer.Categorize(sampling.PrimaryType(label))
		} else {
			c = sampling.Categorize(sampling.PrimaryType(label))
		}
		fmt.Fprintf(w, "%s\t%s\n", label, c)
	}
}
