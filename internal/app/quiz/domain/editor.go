package domain

const (
	minItems           = 1
	minOptions         = 2
	minAcceptedAnswers = 1
)

// Editor maintains an ordered, editable list of questions of one kind and
// classifies each of them against the baseline supplied by the last Reset.
//
// An Editor is not safe for concurrent use; callers serialize access (see the
// session stores).
type Editor struct {
	kind        Kind
	items       []Question
	baseline    map[string]Question
	baselineIDs map[string]struct{}
	changes     *ChangeSet
	errors      ValidationErrors
	newID       func() string
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithIDGenerator replaces the generator used for client-local ids.
func WithIDGenerator(gen func() string) EditorOption {
	return func(e *Editor) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// NewEditor creates an editor holding a single empty question.
func NewEditor(kind Kind, opts ...EditorOption) *Editor {
	e := &Editor{
		kind:  kind,
		newID: NewLocalID,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset(nil)
	return e
}

// Kind returns the question kind the editor works on.
func (e *Editor) Kind() Kind {
	return e.kind
}

// Reset replaces the working list with records and takes their persisted
// members as the new baseline. Validation errors and change-sets are cleared.
// Orders are renumbered 1..n in input order; persisted records whose stored
// order differed are reported by Repositioned.
func (e *Editor) Reset(records []Question) {
	e.items = make([]Question, 0, len(records))
	e.baseline = make(map[string]Question)
	e.baselineIDs = make(map[string]struct{})
	e.changes = NewChangeSet()
	e.errors = make(ValidationErrors)

	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		q := rec.Clone()
		q.Kind = e.kind
		if q.ID == "" {
			q.ID = e.newID()
			q.Origin = OriginLocal
		}
		if _, dup := seen[q.ID]; dup {
			q.ID = e.newID()
			q.Origin = OriginLocal
		}
		if q.Origin == OriginUnknown {
			if IsPersistedID(q.ID) {
				q.Origin = OriginPersisted
			} else {
				q.Origin = OriginLocal
			}
		}
		if q.Persisted() && q.Order > 0 && q.Order != i+1 {
			e.changes.repositioned[q.ID] = struct{}{}
		}
		q.Order = i + 1
		seen[q.ID] = struct{}{}
		e.items = append(e.items, q)

		if q.Persisted() {
			e.baseline[q.ID] = q.Clone()
			e.baselineIDs[q.ID] = struct{}{}
		}
	}

	if len(e.items) == 0 {
		q := newEmptyQuestion(e.kind, e.newID())
		q.Order = 1
		e.items = append(e.items, q)
	}
}

// Validate checks every record and replaces the stored error map with the
// result.
func (e *Editor) Validate() ValidationResult {
	errs := make(ValidationErrors)
	for _, q := range e.items {
		validateQuestion(q, errs)
	}
	e.errors = errs
	return ValidationResult{Valid: len(errs) == 0, Errors: errs.clone()}
}

// Update merges patch into the question with the given id.
func (e *Editor) Update(id string, patch Patch) bool {
	idx := e.indexOf(id)
	if idx < 0 {
		return false
	}
	merged := patch.applyTo(e.items[idx])
	e.items[idx] = merged

	for _, tag := range touchedTags(patch) {
		delete(e.errors, ErrorKey(id, tag))
	}
	e.classify(merged)
	return true
}

// Add inserts a blank question after afterID, or at the end when afterID is
// empty or unknown, and returns its id.
func (e *Editor) Add(afterID string) string {
	q := newEmptyQuestion(e.kind, e.newID())

	pos := len(e.items)
	if afterID != "" {
		if idx := e.indexOf(afterID); idx >= 0 {
			pos = idx + 1
		}
	}
	e.items = append(e.items, Question{})
	copy(e.items[pos+1:], e.items[pos:])
	e.items[pos] = q
	e.reorder()
	e.reclassifyAll()
	return q.ID
}

// Remove deletes the question with the given id unless it is the last one.
func (e *Editor) Remove(id string) bool {
	if len(e.items) <= minItems {
		return false
	}
	idx := e.indexOf(id)
	if idx < 0 {
		return false
	}
	e.items = append(e.items[:idx], e.items[idx+1:]...)

	if _, ok := e.baselineIDs[id]; ok {
		e.changes.markDeleted(id)
		e.changes.dropEdited(id)
	} else {
		e.changes.dropNew(id)
	}
	delete(e.changes.repositioned, id)
	e.errors.dropRecord(id)

	e.reorder()
	e.reclassifyAll()
	return true
}

// MoveUp swaps the question at index with its predecessor.
func (e *Editor) MoveUp(index int) bool {
	if index <= 0 || index >= len(e.items) {
		return false
	}
	e.swap(index-1, index)
	return true
}

// MoveDown swaps the question at index with its successor.
func (e *Editor) MoveDown(index int) bool {
	if index < 0 || index >= len(e.items)-1 {
		return false
	}
	e.swap(index, index+1)
	return true
}

func (e *Editor) swap(i, j int) {
	e.items[i], e.items[j] = e.items[j], e.items[i]
	e.reorder()
	e.reclassifyAll()
}

// AddOption appends a blank option to a multiple-choice question.
func (e *Editor) AddOption(id string) bool {
	q, ok := e.lookup(id, KindMultipleChoice)
	if !ok {
		return false
	}
	opts := append(cloneStrings(q.Options), "")
	return e.Update(id, Patch{Options: opts})
}

// UpdateOption sets the option at index. When that option held the correct
// answer, the correct answer follows the new text, or is cleared when the
// new text is blank.
func (e *Editor) UpdateOption(id string, index int, value string) bool {
	q, ok := e.lookup(id, KindMultipleChoice)
	if !ok || index < 0 || index >= len(q.Options) {
		return false
	}
	old := q.Options[index]
	opts := cloneStrings(q.Options)
	opts[index] = value

	patch := Patch{Options: opts}
	if q.CorrectAnswer != "" && q.CorrectAnswer == old && value != old {
		retarget := value
		if norm(value) == "" {
			retarget = ""
		}
		patch.CorrectAnswer = &retarget
	}
	return e.Update(id, patch)
}

// RemoveOption drops the option at index unless the question would be left
// with fewer than two options. Removing the correct option clears the
// correct answer.
func (e *Editor) RemoveOption(id string, index int) bool {
	q, ok := e.lookup(id, KindMultipleChoice)
	if !ok || index < 0 || index >= len(q.Options) || len(q.Options) <= minOptions {
		return false
	}
	removed := q.Options[index]
	opts := make([]string, 0, len(q.Options)-1)
	opts = append(opts, q.Options[:index]...)
	opts = append(opts, q.Options[index+1:]...)

	patch := Patch{Options: opts}
	if q.CorrectAnswer != "" && q.CorrectAnswer == removed {
		empty := ""
		patch.CorrectAnswer = &empty
	}
	return e.Update(id, patch)
}

// AddAcceptedAnswer appends a blank accepted answer to a short-answer
// question.
func (e *Editor) AddAcceptedAnswer(id string) bool {
	q, ok := e.lookup(id, KindShortAnswer)
	if !ok {
		return false
	}
	answers := append(cloneStrings(q.AcceptedAnswers), "")
	return e.Update(id, Patch{AcceptedAnswers: answers})
}

// UpdateAcceptedAnswer sets the accepted answer at index.
func (e *Editor) UpdateAcceptedAnswer(id string, index int, value string) bool {
	q, ok := e.lookup(id, KindShortAnswer)
	if !ok || index < 0 || index >= len(q.AcceptedAnswers) {
		return false
	}
	answers := cloneStrings(q.AcceptedAnswers)
	answers[index] = value
	return e.Update(id, Patch{AcceptedAnswers: answers})
}

// RemoveAcceptedAnswer drops the accepted answer at index unless it is the
// last one.
func (e *Editor) RemoveAcceptedAnswer(id string, index int) bool {
	q, ok := e.lookup(id, KindShortAnswer)
	if !ok || index < 0 || index >= len(q.AcceptedAnswers) || len(q.AcceptedAnswers) <= minAcceptedAnswers {
		return false
	}
	answers := make([]string, 0, len(q.AcceptedAnswers)-1)
	answers = append(answers, q.AcceptedAnswers[:index]...)
	answers = append(answers, q.AcceptedAnswers[index+1:]...)
	return e.Update(id, Patch{AcceptedAnswers: answers})
}

// New returns the creation payloads of every question not in the baseline,
// in list order.
func (e *Editor) New() []NewQuestion {
	out := make([]NewQuestion, 0)
	for _, q := range e.items {
		if _, ok := e.baselineIDs[q.ID]; ok {
			continue
		}
		out = append(out, toNewQuestion(q))
	}
	return out
}

// Edited returns the current state of baseline questions that differ from
// it, in list order. Deleted ids are never reported.
func (e *Editor) Edited() []Question {
	out := make([]Question, 0, len(e.changes.editedByID))
	for _, q := range e.items {
		edited, ok := e.changes.editedByID[q.ID]
		if !ok || e.changes.isDeleted(q.ID) {
			continue
		}
		out = append(out, edited.Clone())
	}
	return out
}

// Deleted returns the stubs of baseline questions removed since the last
// reset.
func (e *Editor) Deleted() []DeletedQuestion {
	out := make([]DeletedQuestion, len(e.changes.deleted))
	copy(out, e.changes.deleted)
	return out
}

// Repositioned returns the baseline questions that are not edited but whose
// stored order differs from their list position, in list order.
func (e *Editor) Repositioned() []Question {
	out := make([]Question, 0, len(e.changes.repositioned))
	for _, q := range e.items {
		if !e.PositionStale(q.ID) {
			continue
		}
		if _, edited := e.changes.editedByID[q.ID]; edited {
			continue
		}
		out = append(out, q.Clone())
	}
	return out
}

// PositionStale reports whether the stored order of id needs rewriting
// regardless of field changes.
func (e *Editor) PositionStale(id string) bool {
	_, ok := e.changes.repositioned[id]
	return ok
}

// ClearChangeSets forgets tracked changes without touching the working list
// or the baseline.
func (e *Editor) ClearChangeSets() {
	e.changes.Clear()
}

// HasChanges reports whether a save would write anything.
func (e *Editor) HasChanges() bool {
	return len(e.New()) > 0 || len(e.Edited()) > 0 || len(e.changes.deleted) > 0 ||
		len(e.Repositioned()) > 0
}

// Items returns a copy of the working list.
func (e *Editor) Items() []Question {
	out := make([]Question, len(e.items))
	for i, q := range e.items {
		out[i] = q.Clone()
	}
	return out
}

// Errors returns a copy of the current validation errors.
func (e *Editor) Errors() ValidationErrors {
	return e.errors.clone()
}

// Baseline returns the stored state of a persisted question.
func (e *Editor) Baseline(id string) (Question, bool) {
	q, ok := e.baseline[id]
	if !ok {
		return Question{}, false
	}
	return q.Clone(), true
}

func (e *Editor) classify(q Question) {
	if q.Persisted() {
		if base, ok := e.baseline[q.ID]; ok {
			if Equal(base, q) {
				e.changes.dropEdited(q.ID)
			} else {
				e.changes.upsertEdited(q)
			}
			return
		}
	}
	e.changes.upsertNew(q)
}

// reclassifyAll re-checks every record; order participates in equality, so
// any structural change can turn unchanged records into edited ones.
func (e *Editor) reclassifyAll() {
	for _, q := range e.items {
		e.classify(q)
	}
}

func (e *Editor) reorder() {
	for i := range e.items {
		e.items[i].Order = i + 1
	}
}

func (e *Editor) indexOf(id string) int {
	for i, q := range e.items {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func (e *Editor) lookup(id string, kind Kind) (Question, bool) {
	if e.kind != kind {
		return Question{}, false
	}
	idx := e.indexOf(id)
	if idx < 0 {
		return Question{}, false
	}
	return e.items[idx], true
}
