package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ridoystarlord/visusql/loader"
	"github.com/ridoystarlord/visusql/schema"
	"github.com/ridoystarlord/visusql/utils"
)

var rootCmd = &cobra.Command{
	Use:   "visusql",
	Short: "A visual database schema designer that speaks SQL",
	Long: `visusql keeps a table/column/relationship design in memory and turns it
into MySQL-flavored CREATE TABLE statements.

Examples:

  visusql init
  visusql generate
  visusql export --format json
  visusql studio
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.LoadEnv()
	},
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

// Register subcommands
func init() {
	viper.SetEnvPrefix("visusql")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("studio.port", "8080")
	viper.SetDefault("studio.allowed_origins", []string{"*"})
	viper.SetDefault("export.dir", ".")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(studioCmd)
}

// loadDesign reads a YAML design file. A directory is scanned for tagged Go
// structs and a .json path is read as a previous export.
func loadDesign(path string) (*schema.Schema, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return loader.LoadFromStructs(path)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return loader.LoadFromExport(path)
	}
	return loader.LoadFromYAML(path)
}
