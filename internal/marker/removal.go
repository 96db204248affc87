// ABOUTME: Two-state machine tracking the single in-flight unmark
// ABOUTME: idle or removing(id); replaces a -1 sentinel

package marker

// removal is idle when active is false.
type removal struct {
	active bool
	id     ProgramID
}

func (r *removal) begin(id ProgramID) {
	r.active = true
	r.id = id
}

func (r *removal) end() {
	*r = removal{}
}

// pending reports whether id is being removed.
func (r removal) pending(id ProgramID) bool {
	return r.active && r.id == id
}
