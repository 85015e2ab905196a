package business

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"billbase/internal/model"
)

var createFlags struct {
	name    string
	email   string
	phone   string
	address string
	taxID   string
	logo    string
}

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a business profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		b, err := app.Businesses.Create(cmd.Context(), model.Business{
			Name:    createFlags.name,
			Email:   createFlags.email,
			Phone:   createFlags.phone,
			Address: createFlags.address,
			TaxID:   createFlags.taxID,
			Logo:    createFlags.logo,
		})
		if err != nil {
			return fmt.Errorf("create business: %w", err)
		}

		color.Green("Created business %s", b.Name)
		fmt.Printf("ID: %s\n", b.ID)
		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVar(&createFlags.name, "name", "", "business name")
	CreateCmd.Flags().StringVar(&createFlags.email, "email", "", "contact email")
	CreateCmd.Flags().StringVar(&createFlags.phone, "phone", "", "contact phone")
	CreateCmd.Flags().StringVar(&createFlags.address, "address", "", "postal address")
	CreateCmd.Flags().StringVar(&createFlags.taxID, "tax-id", "", "tax identifier")
	CreateCmd.Flags().StringVar(&createFlags.logo, "logo", "", "logo URL or path")
	_ = CreateCmd.MarkFlagRequired("name")
	_ = CreateCmd.MarkFlagRequired("email")
	_ = CreateCmd.MarkFlagRequired("phone")
	_ = CreateCmd.MarkFlagRequired("address")
	_ = CreateCmd.MarkFlagRequired("tax-id")
}
