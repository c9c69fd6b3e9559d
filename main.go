package main

import "kivo-exporter/cmd"

func main() {
	cmd.Execute()
}
