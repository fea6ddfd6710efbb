package main

import "cinema-scheduler-cli/cmd"

func main() {
	cmd.Execute()
}
