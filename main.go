package main

import "fusego/cmd"

func main() {
	cmd.Execute()
}
