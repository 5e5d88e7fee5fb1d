// Package topic provides hierarchical topics and a pattern trie used to route
// editor events to subscribers.
//
// # Topic Format
//
// Topics use dot-notation:
//
//	document.node.inserted
//	document.node.changed
//	composer.selection.changed
//	editor.intention.start
//
// # Wildcards
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	document.node.*     matches document.node.inserted, document.node.removed
//	document.**         matches every document topic
//	*.selection.changed matches composer.selection.changed
//	**                  matches everything
//
// # Usage
//
//	m := topic.NewMatcher[func(Event)]()
//	id := m.Add("document.node.*", onNodeEvent)
//	for _, fn := range m.Match("document.node.inserted") {
//	    fn(ev)
//	}
//	m.Remove(id)
package topic
