package main

import "atelier/internal/cmd"

func main() {
	cmd.Execute()
}
