package main

import "github.com/dcamacho/rbm-gateway/cmd"

func main() {
	cmd.Execute()
}
