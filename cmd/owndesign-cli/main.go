package main

import "github.com/owndesign/owndesign/cmd/owndesign-cli/cmd"

func main() {
	cmd.Execute()
}
