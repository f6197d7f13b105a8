package main

import "wirebench/cmd/wirebench/cmd"

func main() {
	cmd.Execute()
}
