package config

// Version is set at build time with -ldflags "-X .../internal/config.Version=...".
var Version = "dev"
