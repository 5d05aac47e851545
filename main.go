package main

import "github.com/iksnae/aza/cmd"

func main() {
	cmd.Execute()
}
