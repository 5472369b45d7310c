// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command inkpress runs the blogging platform's client core and the
// local shell API it serves.
//
// # Usage
//
//	# Build
//	go build -o inkpress ./cmd/inkpress
//
//	# Run with the default config (~/.inkpress/inkpress.yaml)
//	./inkpress serve
//
//	# Run with an explicit config
//	./inkpress serve --config ./inkpress.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "inkpress",
	Short: "inkpress client core and shell API",
	Long: `inkpress hosts the browser shell's client core: the session
state container, the notification feed, and the content catalog,
exposed over a local HTTP and websocket API.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the inkpress version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("inkpress", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to the config file (default ~/.inkpress/inkpress.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
