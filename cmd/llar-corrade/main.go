package main

import "github.com/goplus/llar-corrade/cmd/llar-corrade/internal"

func main() {
	internal.Execute()
}
