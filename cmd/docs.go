package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/visusql/generator"
)

var (
	docsOutput string
	docsFile   string
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate a Mermaid ERD from a design file",
	Long: `Generate a Mermaid erDiagram of the tables and relationships in a design.

Unlike the SQL output, relationships are drawn here as one-to-many edges.

Examples:
  visusql docs
  visusql docs --file shop.yaml --output docs/erd.md
`,
	Run: func(cmd *cobra.Command, args []string) {
		design, err := loadDesign(docsFile)
		if err != nil {
			fmt.Printf("❌ Error loading design: %v\n", err)
			os.Exit(1)
		}

		tables := design.Tables()
		if len(tables) == 0 {
			fmt.Println("❌ No tables found in design")
			os.Exit(1)
		}

		content := generator.GenerateMermaid(tables, design.Relationships())
		if err := os.WriteFile(docsOutput, []byte(content), 0644); err != nil {
			fmt.Printf("❌ Error writing Mermaid file: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("✅ Mermaid ERD saved to: %s\n", docsOutput)
	},
}

func init() {
	docsCmd.Flags().StringVarP(&docsFile, "file", "f", "schema.yaml", "Design file to document")
	docsCmd.Flags().StringVarP(&docsOutput, "output", "o", "erd.md", "Output file")
}
