package main

import (
	"github.com/simplelang/go-spa/pkg/cmd"
)

func main() {
	cmd.Execute()
}
