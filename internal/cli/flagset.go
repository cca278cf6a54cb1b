package cli

import "flag"

// NewFlagSet returns a clean FlagSet with ContinueOnError; ParseArgs installs
// the real usage handler once the flags are registered.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {}
	return fs
}
