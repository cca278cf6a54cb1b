// Command irvaudit runs the full election audit: the IRV count, margin
// bounds, and the pairwise comparison, emitting one report.
package main

import (
	"irvaudit/internal/app"
	"irvaudit/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
