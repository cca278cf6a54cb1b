// Command txt2blt converts a fixed-width ballot-image export plus its
// master lookup into .blt form on stdout.
package main

import (
	"irvaudit/internal/appshell"
	"irvaudit/internal/convertapp"
)

func main() {
	appshell.Main(convertapp.RunContext)
}
