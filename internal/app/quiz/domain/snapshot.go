package domain

// EditorState is the serializable form of an Editor.
type EditorState struct {
	Kind     Kind              `json:"kind"`
	Items    []Question        `json:"items"`
	Baseline []Question        `json:"baseline"`
	New      []Question        `json:"new"`
	Edited   []Question        `json:"edited"`
	Deleted  []DeletedQuestion `json:"deleted"`
	Errors   ValidationErrors  `json:"errors,omitempty"`

	// Repositioned lists ids whose stored order is stale.
	Repositioned []string `json:"repositioned,omitempty"`
}

// Snapshot captures the full editor state, change-set bookkeeping included.
func (e *Editor) Snapshot() EditorState {
	st := EditorState{
		Kind:     e.kind,
		Items:    e.Items(),
		Baseline: make([]Question, 0, len(e.baseline)),
		New:      make([]Question, 0, len(e.changes.newByID)),
		Edited:   make([]Question, 0, len(e.changes.editedByID)),
		Deleted:  e.Deleted(),
		Errors:   e.Errors(),
	}
	// maps are flattened in list order so snapshots are deterministic
	for _, q := range e.items {
		if b, ok := e.baseline[q.ID]; ok {
			st.Baseline = append(st.Baseline, b.Clone())
		}
		if n, ok := e.changes.newByID[q.ID]; ok {
			st.New = append(st.New, n.Clone())
		}
		if ed, ok := e.changes.editedByID[q.ID]; ok {
			st.Edited = append(st.Edited, ed.Clone())
		}
		if e.PositionStale(q.ID) {
			st.Repositioned = append(st.Repositioned, q.ID)
		}
	}
	// baseline entries of removed questions are not in the list anymore
	for _, d := range e.changes.deleted {
		if b, ok := e.baseline[d.ID]; ok {
			st.Baseline = append(st.Baseline, b.Clone())
		}
	}
	return st
}

// RestoreEditor rebuilds an editor from a snapshot.
func RestoreEditor(st EditorState, opts ...EditorOption) *Editor {
	e := &Editor{
		kind:        st.Kind,
		baseline:    make(map[string]Question, len(st.Baseline)),
		baselineIDs: make(map[string]struct{}, len(st.Baseline)),
		changes:     NewChangeSet(),
		errors:      make(ValidationErrors, len(st.Errors)),
		newID:       NewLocalID,
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, q := range st.Items {
		e.items = append(e.items, q.Clone())
	}
	if len(e.items) == 0 {
		e.Reset(nil)
		return e
	}
	for _, q := range st.Baseline {
		e.baseline[q.ID] = q.Clone()
		e.baselineIDs[q.ID] = struct{}{}
	}
	for _, q := range st.New {
		e.changes.upsertNew(q)
	}
	for _, q := range st.Edited {
		e.changes.upsertEdited(q)
	}
	for _, d := range st.Deleted {
		e.changes.markDeleted(d.ID)
	}
	for _, id := range st.Repositioned {
		if _, ok := e.baselineIDs[id]; ok {
			e.changes.repositioned[id] = struct{}{}
		}
	}
	for k, v := range st.Errors {
		e.errors[k] = v
	}
	return e
}
