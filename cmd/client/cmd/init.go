package cmd

import (
	"billbase/cmd/client/cmd/auth"
	"billbase/cmd/client/cmd/business"
	"billbase/cmd/client/cmd/clients"
	"billbase/cmd/client/cmd/invoice"
	"billbase/cmd/client/cmd/payment"
	syncCmd "billbase/cmd/client/cmd/sync"
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "billbase server address (host:port)")

	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)
	auth.AuthCmd.AddCommand(auth.WhoamiCmd)

	rootCmd.AddCommand(business.BusinessCmd)
	business.BusinessCmd.AddCommand(business.CreateCmd)
	business.BusinessCmd.AddCommand(business.ListCmd)
	business.BusinessCmd.AddCommand(business.GetCmd)
	business.BusinessCmd.AddCommand(business.UpdateCmd)
	business.BusinessCmd.AddCommand(business.DeleteCmd)

	rootCmd.AddCommand(clients.ClientCmd)
	clients.ClientCmd.AddCommand(clients.CreateCmd)
	clients.ClientCmd.AddCommand(clients.ListCmd)
	clients.ClientCmd.AddCommand(clients.GetCmd)
	clients.ClientCmd.AddCommand(clients.UpdateCmd)
	clients.ClientCmd.AddCommand(clients.DeleteCmd)

	rootCmd.AddCommand(invoice.InvoiceCmd)
	invoice.InvoiceCmd.AddCommand(invoice.CreateCmd)
	invoice.InvoiceCmd.AddCommand(invoice.ListCmd)
	invoice.InvoiceCmd.AddCommand(invoice.GetCmd)
	invoice.InvoiceCmd.AddCommand(invoice.UpdateCmd)
	invoice.InvoiceCmd.AddCommand(invoice.MarkCmd)
	invoice.InvoiceCmd.AddCommand(invoice.DeleteCmd)
	invoice.InvoiceCmd.AddCommand(invoice.ItemCmd)
	invoice.ItemCmd.AddCommand(invoice.ItemAddCmd)
	invoice.ItemCmd.AddCommand(invoice.ItemListCmd)
	invoice.ItemCmd.AddCommand(invoice.ItemRemoveCmd)

	rootCmd.AddCommand(payment.PaymentCmd)
	payment.PaymentCmd.AddCommand(payment.RecordCmd)
	payment.PaymentCmd.AddCommand(payment.ListCmd)
	payment.PaymentCmd.AddCommand(payment.DeleteCmd)

	rootCmd.AddCommand(syncCmd.SyncCmd)
}
