package main

import (
	"github.com/docker/agentsync/cmd/root"
)

func main() {
	root.Execute()
}
