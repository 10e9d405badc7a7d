package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/visusql/generator"
)

var (
	schemaFile     string
	generateOutput string
)

func init() {
	generateCmd.Flags().StringVarP(&schemaFile, "file", "f", "schema.yaml", "Design to load: YAML file, exported .json document, or a directory of tagged Go structs")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Write the SQL to this file instead of stdout")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate CREATE TABLE statements from a design file",
	Long: `Generate the SQL text for every table in a design file.

Relationships are part of the design but never appear in the SQL.

Examples:
  visusql generate                         # Print SQL for schema.yaml
  visusql generate -f shop.yaml            # Print SQL for another design
  visusql generate -o schema.sql           # Write SQL to a file
  visusql generate -f database_schema_2026-01-02.json
  visusql generate -f models/              # Read visusql-tagged Go structs
`,
	Run: func(cmd *cobra.Command, args []string) {
		design, err := loadDesign(schemaFile)
		if err != nil {
			fmt.Println("❌ Loading design:", err)
			os.Exit(1)
		}

		tables := design.Tables()
		if len(tables) == 0 {
			fmt.Println("✅ No tables defined, nothing to generate.")
			return
		}

		sql := generator.GenerateSQL(tables)

		if generateOutput == "" {
			fmt.Println(sql)
			return
		}

		if err := os.WriteFile(generateOutput, []byte(sql+"\n"), 0644); err != nil {
			fmt.Println("❌ Writing SQL file:", err)
			os.Exit(1)
		}

		stats := design.Stats()
		color.Green("✅ SQL generated: %s", generateOutput)
		fmt.Printf("  • Tables: %d\n", stats.Tables)
		fmt.Printf("  • Columns: %d\n", stats.Columns)
		fmt.Printf("  • Relationships: %d (not emitted)\n", stats.Relationships)
	},
}
