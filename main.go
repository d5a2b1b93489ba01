package main

import "github.com/Dactires/boardbombers/cmd"

func main() {
	cmd.Execute()
}
