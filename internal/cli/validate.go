package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tamilqa/tamilqa/internal/catalog"
)

// NewValidateCmd creates a new validate command
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file_or_directory]",
		Short: "Validate scenario catalogs against the JSON schema",
		Long: `Validate one or more scenario catalogs against the JSON schema and the structural rules.
This command checks catalog syntax and structure without opening a browser.
Without an argument the built-in catalog is validated.

Examples:
  tamilqa validate                          # Validate the built-in catalog
  tamilqa validate scenarios.yaml           # Validate a single file
  tamilqa validate ./catalogs/              # Validate all YAML files in a directory`,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		if err := catalog.Validate(catalog.DefaultYAML()); err != nil {
			return fmt.Errorf("built-in catalog is invalid: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Built-in catalog passed validation")
		return nil
	}

	var files []string
	totalValid := 0
	totalInvalid := 0

	for _, arg := range args {
		stat, err := os.Stat(arg)
		if err != nil {
			Logger.Error("failed to access path", "path", arg, "error", err)
			totalInvalid++
			continue
		}

		if stat.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && (filepath.Ext(path) == ".yaml" || filepath.Ext(path) == ".yml") {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				Logger.Error("failed to scan directory", "path", arg, "error", err)
				totalInvalid++
				continue
			}
		} else {
			files = append(files, arg)
		}
	}

	if len(files) == 0 && totalInvalid == 0 {
		return fmt.Errorf("no YAML files found to validate")
	}

	Logger.Info("validating files", "count", len(files))

	for _, file := range files {
		if err := validateFile(file); err != nil {
			Logger.Error("validation failed", "file", file, "error", err)
			totalInvalid++
		} else {
			Logger.Info("validation passed", "file", file)
			totalValid++
		}
	}

	Logger.Info("validation complete", "valid", totalValid, "invalid", totalInvalid, "total", len(files))

	if totalInvalid > 0 {
		return fmt.Errorf("validation failed for %d file(s)", totalInvalid)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ All %d file(s) passed validation\n", totalValid)
	return nil
}

func validateFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := catalog.ValidateYAMLWithSchema(data); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	c, err := catalog.ParseYAML(data)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	Logger.Debug("file details",
		"name", c.Name,
		"positive", len(c.Positive),
		"negative", len(c.Negative),
		"ui", c.UI != nil,
	)
	return nil
}
