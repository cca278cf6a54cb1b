package version

// Version is overridden at release time via -ldflags "-X ...".
var Version = "0.4.0-dev"
