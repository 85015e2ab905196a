package clients

import (
	"fmt"

	"github.com/spf13/cobra"

	"billbase/cmd/client/cmd/types"
	"billbase/internal/app/client"
)

// ClientCmd is the parent for customer commands.
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage clients",
	Long:  `Create, list, update and delete clients. Each client belongs to one business.`,
}

func appFromContext(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return app, nil
}
