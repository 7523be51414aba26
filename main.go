package main

import "github.com/iksnae/tona/cmd"

func main() {
	cmd.Execute()
}
