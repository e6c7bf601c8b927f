package main

import "SetRadar/cmd"

func main() {
	cmd.Execute()
}
