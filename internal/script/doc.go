// Package script runs editor reactions written in Lua.
//
// A script defines a global react function that receives the events of a
// transaction pass:
//
//	function react(events)
//	  for _, e in ipairs(events) do
//	    if e.topic == "document.node.changed" and doc.text(e.node) == "TODO" then
//	      editor.set_block_type(e.node, "header2")
//	    end
//	  end
//	end
//
// Inside react the doc table reads the document (text, block_type, kind,
// ids) and the editor table submits requests (insert_text, delete_text,
// set_block_type, set_alignment, toggle). Text offsets are zero-based code
// points. Changes a script makes are part of the running transaction, so
// they undo together with the edit that triggered them.
//
// Scripts run in a sandbox with the base, table, string and math libraries.
// Files, the OS, module loading and the debug library are unavailable, and
// print writes to the logger.
package script
