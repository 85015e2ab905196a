package clients

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"billbase/internal/model"
)

var createFlags struct {
	businessID string
	name       string
	email      string
	phone      string
	address    string
	taxID      string
	notes      string
}

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a client",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		c, err := app.Clients.Create(cmd.Context(), model.Client{
			BusinessID: createFlags.businessID,
			Name:       createFlags.name,
			Email:      createFlags.email,
			Phone:      createFlags.phone,
			Address:    createFlags.address,
			TaxID:      createFlags.taxID,
			Notes:      createFlags.notes,
		})
		if err != nil {
			return fmt.Errorf("create client: %w", err)
		}

		color.Green("Created client %s", c.Name)
		fmt.Printf("ID: %s\n", c.ID)
		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVar(&createFlags.businessID, "business", "", "owning business ID")
	CreateCmd.Flags().StringVar(&createFlags.name, "name", "", "client name")
	CreateCmd.Flags().StringVar(&createFlags.email, "email", "", "contact email")
	CreateCmd.Flags().StringVar(&createFlags.phone, "phone", "", "contact phone")
	CreateCmd.Flags().StringVar(&createFlags.address, "address", "", "postal address")
	CreateCmd.Flags().StringVar(&createFlags.taxID, "tax-id", "", "tax identifier")
	CreateCmd.Flags().StringVar(&createFlags.notes, "notes", "", "free-form notes")
	_ = CreateCmd.MarkFlagRequired("business")
	_ = CreateCmd.MarkFlagRequired("name")
	_ = CreateCmd.MarkFlagRequired("email")
	_ = CreateCmd.MarkFlagRequired("phone")
	_ = CreateCmd.MarkFlagRequired("address")
}
