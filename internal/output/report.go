package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport renders a plan report in the named format and writes it to w
func GenerateReport(w io.Writer, report *domain.PlanReport, format string) error {
	if report == nil {
		return fmt.Errorf("report is nil")
	}

	formatter := GetFormatterByName(format)
	if formatter == nil {
		return UnsupportedFormatError(format)
	}

	data, err := formatter.Format(report)
	if err != nil {
		return fmt.Errorf("%s formatter failed: %w", formatter.Name(), err)
	}

	_, err = w.Write(data)
	return err
}

// UnsupportedFormatError names the formats and aliases GenerateReport accepts
func UnsupportedFormatError(format string) error {
	return fmt.Errorf("unsupported format %q (available: %s; aliases: %s)", format,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// SaveConfiguration writes a plan back out as YAML
func SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0644)
}
