package stage

// Health reports whether a pipeline stage can currently take items. The
// classifier degrades rather than failing, so Ready=false here means the
// stage would mis-handle work, not merely route it to review.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy reports a stage that can take items.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy reports a stage that cannot take items, with the reason.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}
