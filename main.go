package main

import "github.com/kamal-hamza/lumi-cli/cmd"

func main() {
	cmd.Execute()
}
