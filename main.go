package main

import "golang-ifupdown/cmd"

func main() {
	cmd.Execute()
}
