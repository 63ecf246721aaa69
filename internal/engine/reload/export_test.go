// export_test.go exposes internals for white-box testing.
package reload

// SetCanRead replaces the readability probe.
func (r *Reloader) SetCanRead(f func(path string) bool) {
	r.canRead = f
}
