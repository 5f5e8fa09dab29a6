package domain

import "sort"

// ChangeTracker tracks which fields of a question differ from its stored
// state. Repositories use it to build UPDATE mutations that only touch the
// changed columns.
type ChangeTracker struct {
	dirtyFields map[string]bool
}

// NewChangeTracker creates a new ChangeTracker instance.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{
		dirtyFields: make(map[string]bool),
	}
}

// MarkDirty marks a field as dirty (modified).
func (ct *ChangeTracker) MarkDirty(field string) {
	ct.dirtyFields[field] = true
}

// Dirty checks if a specific field has been marked dirty.
func (ct *ChangeTracker) Dirty(field string) bool {
	if ct == nil {
		return false
	}
	return ct.dirtyFields[field]
}

// HasChanges returns true if any fields have been marked dirty.
func (ct *ChangeTracker) HasChanges() bool {
	return ct != nil && len(ct.dirtyFields) > 0
}

// DirtyFields returns the dirty field names in lexical order.
func (ct *ChangeTracker) DirtyFields() []string {
	if ct == nil {
		return nil
	}
	fields := make([]string, 0, len(ct.dirtyFields))
	for field := range ct.dirtyFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Count returns the number of dirty fields.
func (ct *ChangeTracker) Count() int {
	if ct == nil {
		return 0
	}
	return len(ct.dirtyFields)
}

// ChangeSet is the editor's bookkeeping of new, edited and deleted records
// since the last baseline reset.
type ChangeSet struct {
	newByID      map[string]Question
	editedByID   map[string]Question
	deleted      []DeletedQuestion
	// persisted ids whose stored position differs from their list position
	repositioned map[string]struct{}
}

// NewChangeSet creates an empty ChangeSet.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		newByID:      make(map[string]Question),
		editedByID:   make(map[string]Question),
		deleted:      make([]DeletedQuestion, 0),
		repositioned: make(map[string]struct{}),
	}
}

func (cs *ChangeSet) upsertNew(q Question) {
	cs.newByID[q.ID] = q.Clone()
}

func (cs *ChangeSet) dropNew(id string) {
	delete(cs.newByID, id)
}

func (cs *ChangeSet) upsertEdited(q Question) {
	cs.editedByID[q.ID] = q.Clone()
}

func (cs *ChangeSet) dropEdited(id string) {
	delete(cs.editedByID, id)
}

// markDeleted appends a stub for id unless one is already present.
func (cs *ChangeSet) markDeleted(id string) {
	if cs.isDeleted(id) {
		return
	}
	cs.deleted = append(cs.deleted, DeletedQuestion{ID: id})
}

func (cs *ChangeSet) isDeleted(id string) bool {
	for _, d := range cs.deleted {
		if d.ID == id {
			return true
		}
	}
	return false
}

// Clear forgets every tracked change.
func (cs *ChangeSet) Clear() {
	cs.newByID = make(map[string]Question)
	cs.editedByID = make(map[string]Question)
	cs.deleted = make([]DeletedQuestion, 0)
	cs.repositioned = make(map[string]struct{})
}

// Empty reports whether nothing is tracked.
func (cs *ChangeSet) Empty() bool {
	return len(cs.newByID) == 0 && len(cs.editedByID) == 0 && len(cs.deleted) == 0 &&
		len(cs.repositioned) == 0
}
