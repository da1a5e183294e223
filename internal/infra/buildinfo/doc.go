// Package buildinfo exposes build information for QReader binaries.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/qreader-go/internal/infra/buildinfo.Version=v1.0.0 \
//	  -X github.com/yndnr/qreader-go/internal/infra/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo
