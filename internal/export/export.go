package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fathima-sithara/sampling-service/internal/models"
	utils "github.com/fathima-sithara/sampling-service/internal/utils"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Check reports whether format can be encoded.
func Check(format string) error {
	switch format {
	case FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("unsupported export format %q (use json or yaml): %w", format, utils.ErrValidation)
}

func ContentType(format string) string {
	if format == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Filename is the suggested download name, e.g. samples_export_20240101_120000.json.
func Filename(format string, at time.Time) string {
	return fmt.Sprintf("samples_export_%s.%s", at.UTC().Format("20060102_150405"), format)
}

// Encode writes records as one document.
func Encode(w io.Writer, format string, records []models.ExportRecord) error {
	if err := Check(format); err != nil {
		return err
	}
	if records == nil {
		records = []models.ExportRecord{}
	}
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
