//go:build !linux

package sink

// Open always fails on this platform; use the logging sink (--dry-run) instead.
func Open(p Profile) (Sink, error) {
	return nil, ErrUnsupported
}
