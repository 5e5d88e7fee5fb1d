// Package spelling checks the text of document nodes in the background.
//
// A Reaction registered with the editor sends the text of each changed node
// to a Checker on a small worker pool. Because checks finish out of order,
// every request carries an id; only the newest request for a node may
// install its result:
//
//	sp := spelling.NewReaction(spelling.NewDictionaryChecker(words...))
//	if err := sp.Start(); err != nil {
//	    return err
//	}
//	ed := editor.New(doc, editor.WithReactions(sp))
//	...
//	<-sp.Ready()
//	for _, id := range sp.Apply() {
//	    redraw(id, sp.Mistakes(id))
//	}
package spelling
