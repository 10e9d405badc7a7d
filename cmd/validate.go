package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/visusql/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Lint a design file",
	Long: `Lint a design file for problems the generated SQL would carry.

This command checks:
- Table and column naming (empty, duplicate, too long, backticks, reserved keywords)
- Data types outside the editor list
- Tables without columns or without a primary key
- Default values that do not fit their column type
- Relationships whose endpoints no longer exist

Findings never change the design. The SQL is still generated as-is.

Examples:
  visusql validate                     # Validate schema.yaml
  visusql validate --schema shop.yaml  # Validate another design
  visusql validate --format json       # Output results as JSON
`,
	Run: func(cmd *cobra.Command, args []string) {
		valid, err := validateDesign(os.Stdout)
		if err != nil {
			fmt.Printf("❌ Design validation failed: %v\n", err)
			os.Exit(1)
		}
		if !valid {
			os.Exit(1)
		}
	},
}

var (
	validateSchemaFile string
	validateFormat     string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaFile, "schema", "s", "schema.yaml", "Design file to validate")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
}

func validateDesign(w io.Writer) (bool, error) {
	design, err := loadDesign(validateSchemaFile)
	if err != nil {
		return false, fmt.Errorf("failed to load design: %w", err)
	}

	result := validator.Validate(design.Tables(), design.Relationships())

	switch validateFormat {
	case "json":
		err = outputJSON(w, result)
	case "text":
		err = outputText(w, result)
	default:
		err = fmt.Errorf("unsupported format %q", validateFormat)
	}
	return result.Valid, err
}

func outputJSON(w io.Writer, result *validator.ValidationResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(w io.Writer, result *validator.ValidationResult) error {
	if result.Valid {
		color.New(color.FgGreen).Fprintln(w, "✅ Design validation passed!")
	} else {
		color.New(color.FgRed).Fprintln(w, "❌ Design validation failed!")
	}

	printFindings(w, "🔴 Errors", result.Errors)
	printFindings(w, "🟡 Warnings", result.Warnings)
	printFindings(w, "🔵 Info", result.Info)

	fmt.Fprintf(w, "\n📊 Summary:\n")
	fmt.Fprintf(w, "  • Errors: %d\n", len(result.Errors))
	fmt.Fprintf(w, "  • Warnings: %d\n", len(result.Warnings))
	fmt.Fprintf(w, "  • Info: %d\n", len(result.Info))

	if result.Valid {
		fmt.Fprintf(w, "\n🎉 Your design is ready for SQL generation!\n")
	} else {
		fmt.Fprintf(w, "\n💡 Fix the errors above before exporting.\n")
	}
	return nil
}

func printFindings(w io.Writer, heading string, findings []validator.ValidationError) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", heading, len(findings))
	for i, f := range findings {
		fmt.Fprintf(w, "  %d. ", i+1)
		if f.Table != "" {
			fmt.Fprintf(w, "[%s]", f.Table)
		}
		if f.Column != "" {
			fmt.Fprintf(w, ".%s", f.Column)
		}
		fmt.Fprintf(w, ": %s\n", f.Message)
	}
}
