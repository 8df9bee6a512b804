package burette

// Version is the current release of the burette library and CLI.
// It is overridable at build time via -ldflags "-X github.com/aretw0/burette.Version=...".
var Version = "0.3.0"
