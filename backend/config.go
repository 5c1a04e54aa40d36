package backend

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"golang.org/x/sys/cpu"
	"gonum.org/v1/gonum/blas/blas64"
)

// Config is a snapshot of the numerical environment a benchmark runs in.
// It is printed ahead of the timings so results can be compared across
// machines and builds.
type Config struct {
	Backend        string
	Library        string
	LibraryVersion string
	BLAS           string
	GoVersion      string
	GOOS           string
	GOARCH         string
	CGO            bool
	GOMAXPROCS     int
	NumCPU         int
	CPUFeatures    []string
}

// Describe collects the configuration for b.
func Describe(b Backend) Config {
	return Config{
		Backend:        b.Name(),
		Library:        b.Library(),
		LibraryVersion: moduleVersion(b.Library()),
		BLAS:           fmt.Sprintf("%T", blas64.Implementation()),
		GoVersion:      runtime.Version(),
		GOOS:           runtime.GOOS,
		GOARCH:         runtime.GOARCH,
		CGO:            cgoEnabled,
		GOMAXPROCS:     runtime.GOMAXPROCS(0),
		NumCPU:         runtime.NumCPU(),
		CPUFeatures:    cpuFeatures(),
	}
}

// WriteTo prints c as "key: value" lines.
func (c Config) WriteTo(w io.Writer) (int64, error) {
	features := strings.Join(c.CPUFeatures, " ")
	if features == "" {
		features = "none detected"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "backend: %s\n", c.Backend)
	fmt.Fprintf(&sb, "library: %s %s\n", c.Library, c.LibraryVersion)
	fmt.Fprintf(&sb, "blas: %s\n", c.BLAS)
	fmt.Fprintf(&sb, "go: %s %s/%s\n", c.GoVersion, c.GOOS, c.GOARCH)
	fmt.Fprintf(&sb, "cgo: %t\n", c.CGO)
	fmt.Fprintf(&sb, "gomaxprocs: %d\n", c.GOMAXPROCS)
	fmt.Fprintf(&sb, "cpus: %d\n", c.NumCPU)
	fmt.Fprintf(&sb, "cpu features: %s\n", features)
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// moduleVersion looks path up in the binary's build info. Tests and
// builtin backends have no entry and report "unknown".
func moduleVersion(path string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Path == path {
		return info.Main.Version
	}
	for _, dep := range info.Deps {
		if dep.Path != path {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return "unknown"
}

func cpuFeatures() []string {
	var features []string
	add := func(name string, ok bool) {
		if ok {
			features = append(features, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add("sse4.2", cpu.X86.HasSSE42)
		add("avx", cpu.X86.HasAVX)
		add("avx2", cpu.X86.HasAVX2)
		add("fma", cpu.X86.HasFMA)
		add("avx512f", cpu.X86.HasAVX512F)
	case "arm64":
		add("asimd", cpu.ARM64.HasASIMD)
		add("fphp", cpu.ARM64.HasFPHP)
		add("sve", cpu.ARM64.HasSVE)
	}
	return features
}
