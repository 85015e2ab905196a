package clients

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"billbase/internal/model"
)

var UpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a client",
	Long:  `Updates only the fields given as flags; everything else is kept.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		var patch model.ClientPatch
		flags := cmd.Flags()
		if flags.Changed("name") {
			v, _ := flags.GetString("name")
			patch.Name = &v
		}
		if flags.Changed("email") {
			v, _ := flags.GetString("email")
			patch.Email = &v
		}
		if flags.Changed("phone") {
			v, _ := flags.GetString("phone")
			patch.Phone = &v
		}
		if flags.Changed("address") {
			v, _ := flags.GetString("address")
			patch.Address = &v
		}
		if flags.Changed("tax-id") {
			v, _ := flags.GetString("tax-id")
			patch.TaxID = &v
		}
		if flags.Changed("notes") {
			v, _ := flags.GetString("notes")
			patch.Notes = &v
		}

		c, err := app.Clients.Update(cmd.Context(), args[0], patch)
		if err != nil {
			return fmt.Errorf("update client: %w", err)
		}

		color.Green("Updated client %s", c.Name)
		return nil
	},
}

func init() {
	UpdateCmd.Flags().String("name", "", "client name")
	UpdateCmd.Flags().String("email", "", "contact email")
	UpdateCmd.Flags().String("phone", "", "contact phone")
	UpdateCmd.Flags().String("address", "", "postal address")
	UpdateCmd.Flags().String("tax-id", "", "tax identifier")
	UpdateCmd.Flags().String("notes", "", "free-form notes")
}
