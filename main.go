package main

import "epsdm/cmd"

func main() {
	cmd.Execute()
}
