package settings

// Values is the state of the settings form: one string per registry field
// plus the avatar reference. It is a value type; copies do not share state.
type Values struct {
	fields [fieldCount]string
	Avatar string
}

// DefaultValues returns the form as rendered before any profile is loaded.
func DefaultValues() Values {
	var v Values
	for f := Field(0); f < fieldCount; f++ {
		v.fields[f] = f.Default()
	}
	return v
}

// Get returns the current value of a field.
func (v Values) Get(f Field) string {
	if !f.valid() {
		return ""
	}
	return v.fields[f]
}

// Set replaces the value of a field. Invalid fields are ignored.
func (v *Values) Set(f Field, s string) {
	if f.valid() {
		v.fields[f] = s
	}
}

// Apply writes every non-null stored attribute into a copy of v. Attributes
// the registry does not know are ignored, and missing ones keep their
// current value.
func (v Values) Apply(attrs map[string]any) Values {
	out := v
	for _, f := range Fields() {
		raw, ok := attrs[f.Attribute()]
		if !ok || raw == nil {
			continue
		}
		out.fields[f] = f.Normalize(raw)
	}
	if raw, ok := attrs[AvatarAttribute]; ok && raw != nil {
		if s, ok := raw.(string); ok {
			out.Avatar = s
		}
	}
	return out
}

// Updates collects every registry field as a typed storage value.
func (v Values) Updates() map[string]any {
	updates := make(map[string]any, fieldCount+1)
	for _, f := range Fields() {
		updates[f.Attribute()] = f.Value(v.fields[f])
	}
	return updates
}
