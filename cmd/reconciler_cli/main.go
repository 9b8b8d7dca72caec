package main

import "github.com/SscSPs/rental_reconciler/internal/cli"

func main() {
	cli.Execute()
}
