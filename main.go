package main

import "github.com/frahmantamala/budgetflow/cmd"

func main() {
	cmd.Execute()
}
