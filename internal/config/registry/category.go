package registry

import (
	"strings"

	"github.com/dshills/prefpane/internal/property"
)

// BreadcrumbSeparator joins category names in a breadcrumb.
const BreadcrumbSeparator = "/"

// Visibility shows an element only while a predicate over another
// setting's value holds. A nil *Visibility is always visible.
type Visibility struct {
	cell      property.Value
	predicate func(value any) bool
}

// VisibleWhen creates a Visibility driven by cell.
func VisibleWhen(cell property.Value, predicate func(value any) bool) *Visibility {
	return &Visibility{cell: cell, predicate: predicate}
}

// Visible evaluates the predicate against the cell's current value.
func (v *Visibility) Visible() bool {
	if v == nil {
		return true
	}
	return v.predicate(v.cell.Get())
}

// OnChange calls fn whenever the visibility flips. The returned ID can be
// passed to Cancel.
func (v *Visibility) OnChange(fn func(visible bool)) property.ListenerID {
	if v == nil {
		return 0
	}
	return v.cell.AddListener(func(oldValue, newValue any) {
		before, after := v.predicate(oldValue), v.predicate(newValue)
		if before != after {
			fn(after)
		}
	})
}

// Cancel removes a listener registered with OnChange.
func (v *Visibility) Cancel(id property.ListenerID) {
	if v != nil {
		v.cell.RemoveListener(id)
	}
}

// Group is a titled set of settings within a category.
type Group struct {
	description string
	settings    []*Setting
	visibility  *Visibility
}

// NewGroup creates a group. The description may be empty.
func NewGroup(description string, settings ...*Setting) *Group {
	return &Group{description: description, settings: settings}
}

// WithVisibility shows the group only while v is visible.
func (g *Group) WithVisibility(v *Visibility) *Group {
	g.visibility = v
	return g
}

// Description returns the group title.
func (g *Group) Description() string { return g.description }

// Settings returns the settings of the group.
func (g *Group) Settings() []*Setting {
	return append([]*Setting(nil), g.settings...)
}

// IsVisible reports whether the group should currently be shown.
func (g *Group) IsVisible() bool { return g.visibility.Visible() }

// Category is a node in the preferences tree.
type Category struct {
	name       string
	groups     []*Group
	children   []*Category
	parent     *Category
	visibility *Visibility
}

// NewCategory creates a category holding groups.
func NewCategory(name string, groups ...*Group) *Category {
	return &Category{name: name, groups: groups}
}

// NewCategoryOf creates a category whose settings form one untitled group.
func NewCategoryOf(name string, settings ...*Setting) *Category {
	if len(settings) == 0 {
		return NewCategory(name)
	}
	return NewCategory(name, NewGroup("", settings...))
}

// WithSubCategories appends child categories.
func (c *Category) WithSubCategories(children ...*Category) *Category {
	for _, child := range children {
		child.parent = c
	}
	c.children = append(c.children, children...)
	return c
}

// WithVisibility shows the category only while v is visible.
func (c *Category) WithVisibility(v *Visibility) *Category {
	c.visibility = v
	return c
}

// Name returns the category name.
func (c *Category) Name() string { return c.name }

// Groups returns the category's groups.
func (c *Category) Groups() []*Group { return append([]*Group(nil), c.groups...) }

// Children returns the sub-categories.
func (c *Category) Children() []*Category { return append([]*Category(nil), c.children...) }

// Parent returns the parent category, or nil for roots.
func (c *Category) Parent() *Category { return c.parent }

// Settings returns the settings of this category's groups, excluding
// sub-categories.
func (c *Category) Settings() []*Setting {
	var out []*Setting
	for _, g := range c.groups {
		out = append(out, g.settings...)
	}
	return out
}

// Breadcrumb returns the path of names from the root, e.g. "Screen/Scaling".
func (c *Category) Breadcrumb() string {
	var names []string
	for n := c; n != nil; n = n.parent {
		names = append(names, n.name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, BreadcrumbSeparator)
}

// IsVisible reports whether the category and all its ancestors are visible.
func (c *Category) IsVisible() bool {
	for n := c; n != nil; n = n.parent {
		if !n.visibility.Visible() {
			return false
		}
	}
	return true
}

// Walk calls fn for the category and every descendant, depth first.
func (c *Category) Walk(fn func(*Category)) {
	fn(c)
	for _, child := range c.children {
		child.Walk(fn)
	}
}
