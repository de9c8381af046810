package formroute

// Version is the release version, overridable at build time via
// -ldflags "-X github.com/formroute/formroute.Version=...".
var Version = "0.1.0"
