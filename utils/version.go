package utils

// Version is overwritten at build time with -ldflags "-X github.com/cloud66-oss/myip/utils.Version=..."
var Version = "dev"
