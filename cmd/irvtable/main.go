// Command irvtable tabulates the audit runs recorded in the result store.
package main

import (
	"irvaudit/internal/appshell"
	"irvaudit/internal/tableapp"
)

func main() {
	appshell.Main(tableapp.RunContext)
}
