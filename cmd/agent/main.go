package main

import "fieldsync/cmd/agent/cmd"

func main() {
	cmd.Execute()
}
