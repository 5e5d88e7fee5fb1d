package attributed

import "sort"

// Attribution is a typed tag applied to a range of characters.
type Attribution interface {
	// ID groups attributions of the same kind ("bold", "link").
	ID() string

	// CanMergeWith reports whether spans of the two attributions may be
	// coalesced into one span.
	CanMergeWith(other Attribution) bool
}

// Expander is implemented by attributions whose spans grow when text is
// inserted exactly at one of their edges.
type Expander interface {
	ExpandsOnInsert() bool
}

// ZeroWidthSafe is implemented by attributions whose spans survive being
// collapsed to zero length.
type ZeroWidthSafe interface {
	AllowsZeroWidth() bool
}

// NamedAttribution is an attribution identified only by its name.
type NamedAttribution struct {
	Name string
}

// ID returns the attribution name.
func (a NamedAttribution) ID() string { return a.Name }

// CanMergeWith returns true for any NamedAttribution with the same name.
func (a NamedAttribution) CanMergeWith(other Attribution) bool {
	o, ok := other.(NamedAttribution)
	return ok && o.Name == a.Name
}

// String returns the attribution name.
func (a NamedAttribution) String() string { return a.Name }

// Inline style attributions.
var (
	Bold          = NamedAttribution{Name: "bold"}
	Italics       = NamedAttribution{Name: "italics"}
	Underline     = NamedAttribution{Name: "underline"}
	Strikethrough = NamedAttribution{Name: "strikethrough"}
	Code          = NamedAttribution{Name: "code"}
)

// LinkID is the ID shared by all link attributions.
const LinkID = "link"

// LinkAttribution marks text as a hyperlink to URL.
type LinkAttribution struct {
	URL string
}

// NewLink creates a link attribution.
func NewLink(url string) LinkAttribution {
	return LinkAttribution{URL: url}
}

// ID returns LinkID.
func (a LinkAttribution) ID() string { return LinkID }

// CanMergeWith returns true only for links with the same URL.
func (a LinkAttribution) CanMergeWith(other Attribution) bool {
	o, ok := other.(LinkAttribution)
	return ok && o.URL == a.URL
}

// String returns a debug representation.
func (a LinkAttribution) String() string { return "link(" + a.URL + ")" }

func expands(a Attribution) bool {
	e, ok := a.(Expander)
	return ok && e.ExpandsOnInsert()
}

func allowsZeroWidth(a Attribution) bool {
	z, ok := a.(ZeroWidthSafe)
	return ok && z.AllowsZeroWidth()
}

// Set is a collection of distinct attributions.
type Set []Attribution

// Contains reports whether the set holds an attribution equal to a.
func (s Set) Contains(a Attribution) bool {
	for _, x := range s {
		if x == a {
			return true
		}
	}
	return false
}

// ContainsID reports whether the set holds any attribution with the given ID.
func (s Set) ContainsID(id string) bool {
	for _, x := range s {
		if x.ID() == id {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same attributions, ignoring order.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for _, a := range s {
		if !other.Contains(a) {
			return false
		}
	}
	return true
}

func (s Set) add(a Attribution) Set {
	if s.Contains(a) {
		return s
	}
	return append(s, a)
}

func (s Set) sorted() Set {
	sort.SliceStable(s, func(i, j int) bool { return attributionLess(s[i], s[j]) })
	return s
}

func attributionLess(a, b Attribution) bool {
	if a.ID() != b.ID() {
		return a.ID() < b.ID()
	}
	la, oka := a.(LinkAttribution)
	lb, okb := b.(LinkAttribution)
	if oka && okb {
		return la.URL < lb.URL
	}
	return false
}
