package internal

// CurrentVersion is overwritten by ldflags during release builds.
var CurrentVersion = "v0.1.0"

// UserAgent is sent with every Sentinel API request.
func UserAgent() string {
	return "sentinelctl/" + CurrentVersion
}
