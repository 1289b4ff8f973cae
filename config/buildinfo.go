package config

// Variables to control the build info
// can be overridden by Go linker during the build step:
// go build -ldflags "-X 'github.com/gwos/datetime/config.buildTag=<TAG>' -X 'github.com/gwos/datetime/config.buildTime=`date --rfc-3339=s`'"
var (
	buildTag  = "1.x.x"
	buildTime = "Build time not provided"
)

// BuildInfo describes the build properties
type BuildInfo struct {
	Tag  string `json:"tag" yaml:"tag"`
	Time string `json:"time" yaml:"time"`
}

// GetBuildInfo returns the build properties
func GetBuildInfo() BuildInfo {
	return BuildInfo{buildTag, buildTime}
}

func (b BuildInfo) String() string {
	return "dtfmt " + b.Tag + " / " + b.Time
}
