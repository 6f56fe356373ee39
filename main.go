package main

import "github.com/routepath/asrouter/cmd"

func main() {
	cmd.Execute()
}
