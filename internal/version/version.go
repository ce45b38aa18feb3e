package version

// Set at build time via
// -ldflags "-X product-transactions/internal/version.Version=... -X ...Commit=... -X ...BuildTime=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
