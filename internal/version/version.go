package version

// Version is overridden at build time via -ldflags.
var Version = "1.2.0"
