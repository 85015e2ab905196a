package main

import "billbase/cmd/client/cmd"

func main() {
	cmd.Execute()
}
