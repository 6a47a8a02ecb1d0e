package access

// mapAccessor adapts a map-backed model. Any declared field is readable (a
// missing key reads as nil) so maps double as placeholder sub-models when an
// association is absent at construction time.
type mapAccessor struct {
	data map[string]any
}

// ForMap returns an accessor over the supplied map. The map is shared, not
// copied; writes through Set land in the caller's map.
func ForMap(data map[string]any) Accessor {
	if data == nil {
		data = make(map[string]any)
	}
	return &mapAccessor{data: data}
}

func (a *mapAccessor) Get(name string) (any, error) {
	return a.data[name], nil
}

func (a *mapAccessor) Set(name string, value any) error {
	a.data[name] = value
	return nil
}
