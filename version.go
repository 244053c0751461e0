package iou

// version follows semantic versioning. Untagged builds carry the -dev
// suffix.
const version = "v0.1.0-dev"

// GitCommit is set at build time:
//
//   go build -ldflags "-X github.com/iov-one/iou.GitCommit=$(git rev-parse --short HEAD)"
var GitCommit = ""

// Version returns the version of the binary, followed by the commit it was
// built from when known.
func Version() string {
	if GitCommit == "" {
		return version
	}
	return version + " " + GitCommit
}
