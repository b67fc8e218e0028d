// Package main implements the editalscanner CLI: gazette scanning,
// summary extraction and the human-review loop around it.
package main

import (
	"EditalScanner/pkg/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.New("editalscanner").Fatalf("%v", err)
	}
}
