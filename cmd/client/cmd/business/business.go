package business

import (
	"fmt"

	"github.com/spf13/cobra"

	"billbase/cmd/client/cmd/types"
	"billbase/internal/app/client"
)

// BusinessCmd is the parent for business profile commands.
var BusinessCmd = &cobra.Command{
	Use:   "business",
	Short: "Manage business profiles",
	Long:  `Create, list, update and delete business profiles. A business owns clients and invoices.`,
}

func appFromContext(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return app, nil
}
