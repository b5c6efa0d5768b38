package enquo

// Zero overwrites b with zeros, best-effort, to clear key material from
// memory once a Root, Field, or KeyProvider is released. Not a correctness
// contract: the Go runtime may have already copied the backing array
// elsewhere (GC moves, register spills).
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
