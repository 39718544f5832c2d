/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/douzebis/riegeli/cmd/riegeli/cmd"

func main() {
	cmd.Execute()
}
