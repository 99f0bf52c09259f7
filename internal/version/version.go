package version

var (
	// Populated at build time with -ldflags
	version = "dev"
	commit  = "unknown"
)

const MajorVersion = 1

func Version() string {
	return version
}

func Commit() string {
	return commit
}
