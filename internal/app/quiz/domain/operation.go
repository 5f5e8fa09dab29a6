package domain

// OpName names an editor mutation that a client can request.
type OpName string

const (
	OpUpdate               OpName = "update"
	OpAdd                  OpName = "add"
	OpRemove               OpName = "remove"
	OpMoveUp               OpName = "move_up"
	OpMoveDown             OpName = "move_down"
	OpAddOption            OpName = "add_option"
	OpUpdateOption         OpName = "update_option"
	OpRemoveOption         OpName = "remove_option"
	OpAddAcceptedAnswer    OpName = "add_accepted_answer"
	OpUpdateAcceptedAnswer OpName = "update_accepted_answer"
	OpRemoveAcceptedAnswer OpName = "remove_accepted_answer"
)

// Operation is one user action against an editor. Only the fields relevant
// to Name are read.
type Operation struct {
	Name       OpName
	QuestionID string
	// AfterID positions OpAdd; empty appends.
	AfterID string
	// Index is the list position for moves and the sub-list position for
	// option and accepted-answer operations.
	Index int
	Value string
	Patch Patch
}

// OperationResult reports the outcome of Apply.
type OperationResult struct {
	Applied bool
	// CreatedID is set by OpAdd.
	CreatedID string
}

// Apply runs op against e. The only error is ErrUnknownOperation; a no-op
// such as removing the last question is reported through Applied.
func Apply(e *Editor, op Operation) (OperationResult, error) {
	var res OperationResult
	switch op.Name {
	case OpUpdate:
		res.Applied = e.Update(op.QuestionID, op.Patch)
	case OpAdd:
		res.CreatedID = e.Add(op.AfterID)
		res.Applied = true
	case OpRemove:
		res.Applied = e.Remove(op.QuestionID)
	case OpMoveUp:
		res.Applied = e.MoveUp(op.Index)
	case OpMoveDown:
		res.Applied = e.MoveDown(op.Index)
	case OpAddOption:
		res.Applied = e.AddOption(op.QuestionID)
	case OpUpdateOption:
		res.Applied = e.UpdateOption(op.QuestionID, op.Index, op.Value)
	case OpRemoveOption:
		res.Applied = e.RemoveOption(op.QuestionID, op.Index)
	case OpAddAcceptedAnswer:
		res.Applied = e.AddAcceptedAnswer(op.QuestionID)
	case OpUpdateAcceptedAnswer:
		res.Applied = e.UpdateAcceptedAnswer(op.QuestionID, op.Index, op.Value)
	case OpRemoveAcceptedAnswer:
		res.Applied = e.RemoveAcceptedAnswer(op.QuestionID, op.Index)
	default:
		return res, ErrUnknownOperation
	}
	return res, nil
}
