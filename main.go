package main

import "github.com/minoslab/minos/cmd"

func main() {
	cmd.Execute()
}
