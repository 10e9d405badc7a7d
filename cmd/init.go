package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/visusql/loader"
	"github.com/ridoystarlord/visusql/schema"
)

var initFile string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample design file",
	Long: `Create a sample schema.yaml with two related tables.

Examples:
  visusql init
  visusql init --file shop.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(initFile); err == nil {
			fmt.Printf("❌ %s already exists!\n", initFile)
			return
		}

		design, err := sampleDesign()
		if err != nil {
			fmt.Println("❌ Building sample design:", err)
			os.Exit(1)
		}

		f, err := os.Create(initFile)
		if err != nil {
			fmt.Printf("❌ Error creating %s: %v\n", initFile, err)
			os.Exit(1)
		}
		defer f.Close()

		if err := loader.EncodeYAML(f, design.Tables(), design.Relationships()); err != nil {
			fmt.Printf("❌ Error writing %s: %v\n", initFile, err)
			os.Exit(1)
		}

		fmt.Printf("✅ Created %s example file.\n", initFile)
		fmt.Printf("📝 Edit %s to define your tables\n", initFile)
		fmt.Println("🚀 Run 'visusql generate' to print the SQL, or 'visusql studio' to edit it over HTTP")
	},
}

func init() {
	initCmd.Flags().StringVarP(&initFile, "file", "f", "schema.yaml", "Design file to create")
}

// sampleDesign builds users and posts, with posts pointing at users.
func sampleDesign() (*schema.Schema, error) {
	s := schema.New()

	users, err := s.AddTable("users")
	if err != nil {
		return nil, err
	}
	for _, c := range []schema.ColumnUpdate{
		{Name: strPtr("email"), IsNullable: boolPtr(false), IsUnique: boolPtr(true)},
		{Name: strPtr("status"), DefaultValue: strPtr("active")},
		{Name: strPtr("created_at"), DataType: strPtr("TIMESTAMP"), IsNullable: boolPtr(false)},
	} {
		if err := addColumn(s, users.ID, c); err != nil {
			return nil, err
		}
	}

	posts, err := s.AddTable("posts")
	if err != nil {
		return nil, err
	}
	for _, c := range []schema.ColumnUpdate{
		{Name: strPtr("user_id"), DataType: strPtr("INTEGER"), IsNullable: boolPtr(false)},
		{Name: strPtr("title"), IsNullable: boolPtr(false)},
		{Name: strPtr("body"), DataType: strPtr("TEXT")},
	} {
		if err := addColumn(s, posts.ID, c); err != nil {
			return nil, err
		}
	}

	if _, err := s.Connect(posts.ID, users.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func addColumn(s *schema.Schema, tableID string, upd schema.ColumnUpdate) error {
	col, err := s.AddColumn(tableID)
	if err != nil {
		return err
	}
	_, err = s.UpdateColumn(tableID, col.ID, upd)
	return err
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
