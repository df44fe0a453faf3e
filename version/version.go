package version

// Values are injected at build time using the linker, for example
//
//	go build -ldflags "-X github.com/TeamNorCal/glow/version.GitHash=`git rev-parse HEAD` -X github.com/TeamNorCal/glow/version.BuildTime=`date -u +%FT%TZ`"
var (
	GitHash   = "unknown"
	BuildTime = "unknown"
)
