package main

import "hotspot-control/cmd"

func main() {
	cmd.Execute()
}
