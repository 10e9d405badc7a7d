package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ridoystarlord/visusql/export"
)

var (
	exportFormat string
	exportFile   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a design as a timestamped SQL or JSON file",
	Long: `Export a design file the same way the editor toolbar does.

  --format sql   database_schema_<date>T<time>.sql with the CREATE TABLE text
  --format json  database_schema_<date>.json with metadata, tables and sql

The target directory defaults to the current one and can be set with --dir
or VISUSQL_EXPORT_DIR.

Examples:
  visusql export
  visusql export --format json --dir exports/
`,
	Run: func(cmd *cobra.Command, args []string) {
		design, err := loadDesign(exportFile)
		if err != nil {
			fmt.Println("❌ Loading design:", err)
			os.Exit(1)
		}

		dir := viper.GetString("export.dir")
		now := time.Now()

		var path string
		switch exportFormat {
		case "sql":
			path, err = export.SaveSQLFile(dir, design.Tables(), now)
		case "json":
			path, err = export.SaveJSONFile(dir, design.Tables(), now)
		default:
			fmt.Printf("❌ Unsupported format: %s\n", exportFormat)
			fmt.Println("Supported formats: sql, json")
			os.Exit(1)
		}

		if errors.Is(err, export.ErrEmptySchema) {
			fmt.Println("❌ No schema to export!")
			os.Exit(1)
		}
		if err != nil {
			fmt.Println("❌ Exporting design:", err)
			os.Exit(1)
		}

		fmt.Println("✅ Exported:", path)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "schema.yaml", "Design file to export")
	exportCmd.Flags().StringVar(&exportFormat, "format", "sql", "Export format (sql, json)")
	exportCmd.Flags().String("dir", ".", "Directory to write the export into")
	viper.BindPFlag("export.dir", exportCmd.Flags().Lookup("dir"))
}
