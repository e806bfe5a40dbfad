package main

import "gamesearch/cmd"

func main() {
	cmd.Execute()
}
