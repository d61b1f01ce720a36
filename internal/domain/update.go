package domain

import "time"

// FieldUpdate is one field of a partial update: either set to a value or
// left unchanged.
type FieldUpdate[T any] struct {
	value T
	set   bool
}

// Set returns an update that overwrites the field with v.
func Set[T any](v T) FieldUpdate[T] {
	return FieldUpdate[T]{value: v, set: true}
}

// Unchanged returns an update that leaves the field as stored.
func Unchanged[T any]() FieldUpdate[T] {
	return FieldUpdate[T]{}
}

// Get returns the value and whether the field is to be written.
func (f FieldUpdate[T]) Get() (T, bool) {
	return f.value, f.set
}

// EventUpdate lists every mutable event field. Stores write only the fields
// that are set.
type EventUpdate struct {
	Type        FieldUpdate[string]
	Name        FieldUpdate[string]
	Tagline     FieldUpdate[string]
	Schedule    FieldUpdate[time.Time]
	Description FieldUpdate[string]
	Image       FieldUpdate[string]
	Moderator   FieldUpdate[string]
	Category    FieldUpdate[string]
	SubCategory FieldUpdate[string]
	RigorRank   FieldUpdate[string]
	Attendees   FieldUpdate[[]int]
}

// UpdateField is a stored field name paired with the value to write.
type UpdateField struct {
	Name  string
	Value any
}

// Fields returns the set fields in a stable order, keyed by their stored names.
func (u EventUpdate) Fields() []UpdateField {
	var out []UpdateField
	add := func(name string, v any, ok bool) {
		if ok {
			out = append(out, UpdateField{Name: name, Value: v})
		}
	}
	v1, ok := u.Type.Get()
	add("type", v1, ok)
	v2, ok := u.Name.Get()
	add("name", v2, ok)
	v3, ok := u.Tagline.Get()
	add("tagline", v3, ok)
	v4, ok := u.Schedule.Get()
	add("schedule", v4, ok)
	v5, ok := u.Description.Get()
	add("description", v5, ok)
	v6, ok := u.Image.Get()
	add("image", v6, ok)
	v7, ok := u.Moderator.Get()
	add("moderator", v7, ok)
	v8, ok := u.Category.Get()
	add("category", v8, ok)
	v9, ok := u.SubCategory.Get()
	add("sub_category", v9, ok)
	v10, ok := u.RigorRank.Get()
	add("rigor_rank", v10, ok)
	v11, ok := u.Attendees.Get()
	add("attendees", v11, ok)
	return out
}

// Apply writes the set fields onto e. Used to echo an update back to clients
// and by in-memory stores.
func (u EventUpdate) Apply(e *Event) {
	if v, ok := u.Type.Get(); ok {
		e.Type = v
	}
	if v, ok := u.Name.Get(); ok {
		e.Name = v
	}
	if v, ok := u.Tagline.Get(); ok {
		e.Tagline = v
	}
	if v, ok := u.Schedule.Get(); ok {
		e.Schedule = v
	}
	if v, ok := u.Description.Get(); ok {
		e.Description = v
	}
	if v, ok := u.Image.Get(); ok {
		img := v
		e.Image = &img
	}
	if v, ok := u.Moderator.Get(); ok {
		e.Moderator = v
	}
	if v, ok := u.Category.Get(); ok {
		e.Category = v
	}
	if v, ok := u.SubCategory.Get(); ok {
		e.SubCategory = v
	}
	if v, ok := u.RigorRank.Get(); ok {
		e.RigorRank = v
	}
	if v, ok := u.Attendees.Get(); ok {
		e.Attendees = v
	}
}
