package main

import "habitflow/cmd"

func main() {
	cmd.Execute()
}
