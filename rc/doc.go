// Package rc provides smart pointers with explicit, deterministic release:
// an exclusive Box, a single-goroutine Rc with WeakRc, and an atomically
// counted Arc with Weak.
//
// Go has no destructors, so owners call Drop when they are done, usually in
// a defer. The destructor registered with WithDrop, or the value's own Drop
// method when it implements Dropper, runs exactly once, when the last strong
// handle is dropped. The block itself is freed once no weak handle remains
// either.
//
//	cfg := rc.NewArc(conn, rc.WithDrop(func(c *Conn) { c.Close() }))
//	defer cfg.Drop()
//
//	go func(h *rc.Arc[Conn]) {
//		defer h.Drop()
//		use(h.Get())
//	}(cfg.Clone())
//
// Blocks come from the Go heap unless WithAllocator says otherwise.
package rc
