package main

import "github.com/sagehq/sage/cmd"

func main() {
	cmd.Execute()
}
