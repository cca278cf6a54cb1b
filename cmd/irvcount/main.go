// Command irvcount tabulates a single IRV election: rounds, eliminations,
// winner. It does none of the audit extras.
package main

import (
	"irvaudit/internal/appshell"
	"irvaudit/internal/countapp"
)

func main() {
	appshell.Main(countapp.RunContext)
}
