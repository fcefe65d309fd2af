package main

import "github.com/chukul/sentinelctl/cmd"

func main() {
	cmd.Execute()
}
