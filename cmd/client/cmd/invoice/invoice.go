package invoice

import (
	"fmt"

	"github.com/spf13/cobra"

	"billbase/cmd/client/cmd/types"
	"billbase/internal/app/client"
)

// InvoiceCmd is the parent for invoice commands.
var InvoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Manage invoices",
	Long: `Create, list, update and delete invoices, and manage their line
items. Line items stay on this device; the invoice totals are what syncs.`,
}

func appFromContext(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return app, nil
}
