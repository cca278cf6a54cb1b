// Command irvcondorcet prints the pairwise comparison matrix and the
// Condorcet winner, if one exists.
package main

import (
	"irvaudit/internal/appshell"
	"irvaudit/internal/condorcetapp"
)

func main() {
	appshell.Main(condorcetapp.RunContext)
}
