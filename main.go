package main

import "starlog/internal/cmd"

func main() {
	cmd.Execute()
}
