package payment

import (
	"fmt"

	"github.com/spf13/cobra"

	"billbase/cmd/client/cmd/types"
	"billbase/internal/app/client"
)

// PaymentCmd is the parent for payment commands.
var PaymentCmd = &cobra.Command{
	Use:   "payment",
	Short: "Manage payments",
	Long:  `Record, list and delete payments against invoices.`,
}

func appFromContext(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return app, nil
}
