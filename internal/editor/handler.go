package editor

// builtinHandler maps every request defined in this package to its command.
func builtinHandler(r Request) Command {
	switch r := r.(type) {
	case ChangeSelectionRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { changeSelection(ctx, x, r) })
	case ChangeComposingRegionRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { changeComposingRegion(ctx, x, r) })
	case ClearComposingRegionRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { x.SetComposingRegion(nil) })
	case SetComposerPreferencesRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { ctx.Composer.SetPreferences(r.Preferences) })
	case InsertTextRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { insertPlainText(ctx, x, r) })
	case InsertAttributedTextRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { insertText(ctx, x, r.Position, r.Text) })
	case DeleteContentRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { deleteRange(ctx, x, r.Range.Start, r.Range.End) })
	case DeleteUpstreamCharacterRequest:
		return CommandFunc(deleteUpstreamCharacter)
	case DeleteDownstreamCharacterRequest:
		return CommandFunc(deleteDownstreamCharacter)
	case InsertNewlineRequest:
		return CommandFunc(insertNewline)
	case SplitParagraphRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { splitParagraph(ctx, x, r) })
	case SplitListItemRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { splitListItem(ctx, x, r) })
	case SplitTaskRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { splitTask(ctx, x, r) })
	case CombineParagraphsRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { combineNodes(ctx, x, r.FirstNodeID, r.SecondNodeID) })
	case InsertNodeAtIndexRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { insertNodeAtIndex(ctx, x, r) })
	case InsertNodeBeforeRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { insertNodeBeside(ctx, x, r.ExistingNodeID, r.Node, false) })
	case InsertNodeAfterRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { insertNodeBeside(ctx, x, r.ExistingNodeID, r.Node, true) })
	case ReplaceNodeRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { replaceNode(ctx, x, r) })
	case DeleteNodeRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { deleteNode(ctx, x, r.NodeID) })
	case MoveNodeRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { moveNode(ctx, x, r) })
	case ChangeBlockTypeRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { changeBlockType(ctx, x, r) })
	case ChangeAlignmentRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { changeAlignment(ctx, x, r) })
	case ConvertParagraphToListItemRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { convertParagraphToListItem(ctx, x, r) })
	case ConvertListItemToParagraphRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { convertListItemToParagraph(ctx, x, r.NodeID) })
	case ChangeListItemTypeRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { changeListItemType(ctx, x, r) })
	case IndentListItemRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { indentListItem(ctx, x, r.NodeID) })
	case UnindentListItemRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { unindentListItem(ctx, x, r.NodeID) })
	case ConvertParagraphToTaskRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { convertParagraphToTask(ctx, x, r) })
	case ConvertTaskToParagraphRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { convertTaskToParagraph(ctx, x, r.NodeID) })
	case ChangeTaskCompletionRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { changeTaskCompletion(ctx, x, r) })
	case AddTextAttributionsRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { addTextAttributions(ctx, x, r) })
	case RemoveTextAttributionsRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { removeTextAttributions(ctx, x, r) })
	case ToggleTextAttributionsRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { toggleTextAttributions(ctx, x, r) })
	case markdownShortcutRequest:
		return CommandFunc(func(ctx *EditContext, x *CommandExecutor) { applyMarkdownShortcut(ctx, x, r) })
	}
	return nil
}
