package domain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pid(c string) string {
	return strings.Repeat(c, PersistedIDLength)
}

func seqIDs() EditorOption {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("tmp-%d", n)
	})
}

func strPtr(s string) *string { return &s }

func mcQuestion(id, text string, options []string, correct string) Question {
	return Question{ID: id, QuestionText: text, Options: options, CorrectAnswer: correct, Points: 1}
}

func assertDenseOrder(t *testing.T, e *Editor) {
	t.Helper()
	for i, q := range e.Items() {
		assert.Equal(t, i+1, q.Order, "question %s at index %d", q.ID, i)
	}
}

func TestEditor_ResetEmptyCreatesSingleBlankQuestion(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())

	items := e.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "tmp-1", items[0].ID)
	assert.Equal(t, OriginLocal, items[0].Origin)
	assert.Equal(t, []string{"", ""}, items[0].Options)
	assert.Equal(t, 1, items[0].Order)

	sa := NewEditor(KindShortAnswer, seqIDs())
	assert.Equal(t, []string{""}, sa.Items()[0].AcceptedAnswers)
}

func TestEditor_ResetRoundTrip(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{
		mcQuestion(pid("a"), "Q1", []string{"a", "b"}, "a"),
		mcQuestion(pid("b"), "Q2", []string{"c", "d"}, "d"),
	})

	assert.Empty(t, e.New())
	assert.Empty(t, e.Edited())
	assert.Empty(t, e.Deleted())
	assert.False(t, e.HasChanges())

	items := e.Items()
	for _, q := range items {
		assert.Equal(t, OriginPersisted, q.Origin)
		assert.Equal(t, KindMultipleChoice, q.Kind)
	}
	assert.Equal(t, 1, items[0].Order)
	assert.Equal(t, 2, items[1].Order)
}

func TestEditor_ResetClassifiesMissingAndLocalIDs(t *testing.T) {
	e := NewEditor(KindShortAnswer, seqIDs())
	e.Reset([]Question{
		{QuestionText: "no id", AcceptedAnswers: []string{"x"}},
		{ID: "short", QuestionText: "local", AcceptedAnswers: []string{"y"}},
		{ID: pid("c"), QuestionText: "stored", AcceptedAnswers: []string{"z"}},
	})

	items := e.Items()
	require.Len(t, items, 3)
	assert.Equal(t, OriginLocal, items[0].Origin)
	assert.True(t, strings.HasPrefix(items[0].ID, "tmp-"))
	assert.Equal(t, OriginLocal, items[1].Origin)
	assert.Equal(t, OriginPersisted, items[2].Origin)

	_, ok := e.Baseline(pid("c"))
	assert.True(t, ok)
	_, ok = e.Baseline("short")
	assert.False(t, ok)
	assert.Len(t, e.New(), 2)
}

func TestEditor_ResetDeduplicatesIDs(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{
		mcQuestion(pid("a"), "Q1", []string{"a", "b"}, "a"),
		mcQuestion(pid("a"), "Q1 again", []string{"a", "b"}, "a"),
	})

	items := e.Items()
	require.Len(t, items, 2)
	assert.NotEqual(t, items[0].ID, items[1].ID)
	assert.Equal(t, OriginLocal, items[1].Origin)
}

func TestEditor_ListFloor(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{
		mcQuestion(pid("a"), "Q1", []string{"a", "b"}, "a"),
		mcQuestion(pid("b"), "Q2", []string{"a", "b"}, "a"),
		mcQuestion(pid("c"), "Q3", []string{"a", "b"}, "a"),
	})

	for _, id := range []string{pid("a"), pid("b"), pid("c"), pid("c")} {
		e.Remove(id)
		assert.GreaterOrEqual(t, len(e.Items()), 1)
	}
	require.Len(t, e.Items(), 1)
	assert.Equal(t, pid("c"), e.Items()[0].ID)
	assert.False(t, e.Remove(pid("c")))
	assertDenseOrder(t, e)
}

func TestEditor_DenseOrderAfterMutations(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{
		mcQuestion(pid("a"), "Q1", []string{"a", "b"}, "a"),
		mcQuestion(pid("b"), "Q2", []string{"a", "b"}, "a"),
	})

	added := e.Add(pid("a"))
	assertDenseOrder(t, e)
	assert.Equal(t, added, e.Items()[1].ID)

	e.Add("")
	assertDenseOrder(t, e)
	e.Add("missing")
	assertDenseOrder(t, e)
	assert.Len(t, e.Items(), 5)

	e.MoveDown(0)
	assertDenseOrder(t, e)
	e.MoveUp(4)
	assertDenseOrder(t, e)
	e.Remove(pid("b"))
	assertDenseOrder(t, e)
	e.Remove(added)
	assertDenseOrder(t, e)
}

func TestEditor_MoveBoundariesAreNoops(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{
		mcQuestion(pid("a"), "Q1", []string{"a", "b"}, "a"),
		mcQuestion(pid("b"), "Q2", []string{"a", "b"}, "a"),
	})

	assert.False(t, e.MoveUp(0))
	assert.False(t, e.MoveDown(1))
	assert.False(t, e.MoveUp(7))
	assert.False(t, e.MoveDown(-1))
	assert.Empty(t, e.Edited())
}

func TestEditor_DiffCorrectnessAndRevert(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{{ID: pid("A"), QuestionText: "Q1", Options: []string{"a", "b"}, CorrectAnswer: "a"}})

	require.True(t, e.Update(pid("A"), Patch{QuestionText: strPtr("Q2")}))
	edited := e.Edited()
	require.Len(t, edited, 1)
	assert.Equal(t, "Q2", edited[0].QuestionText)

	e.Update(pid("A"), Patch{QuestionText: strPtr("Q1")})
	assert.Empty(t, e.Edited())
}

func TestEditor_UpdateUnknownIDIsNoop(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	before := e.Items()

	assert.False(t, e.Update("nope", Patch{QuestionText: strPtr("x")}))
	assert.Equal(t, before, e.Items())
}

func TestEditor_UpdateLocalQuestionTracksNew(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	id := e.Items()[0].ID

	e.Update(id, Patch{QuestionText: strPtr("  fresh  ")})
	assert.Empty(t, e.Edited())

	created := e.New()
	require.Len(t, created, 1)
	assert.Equal(t, id, created[0].LocalID)
	assert.Equal(t, "fresh", created[0].QuestionText)
	assert.Equal(t, KindMultipleChoice, created[0].Kind)
	assert.Equal(t, 1, created[0].Order)
	assert.Equal(t, 1, created[0].Points)
}

func TestEditor_NewFiltersBlankAcceptedAnswers(t *testing.T) {
	e := NewEditor(KindShortAnswer, seqIDs())
	e.Reset([]Question{{ID: pid("a"), QuestionText: "Q", AcceptedAnswers: []string{"yes"}}})

	id := e.Add("")
	e.Update(id, Patch{QuestionText: strPtr("Capital of France?"), AcceptedAnswers: []string{"  ", "ok", ""}})

	created := e.New()
	require.Len(t, created, 1)
	assert.Equal(t, []string{"ok"}, created[0].AcceptedAnswers)
	assert.Equal(t, 2, created[0].Order)
}

func TestEditor_ValidateCorrectAnswerMustBeOption(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{mcQuestion(pid("a"), "Pick one", []string{"x", "y"}, "z")})
	key := ErrorKey(pid("a"), TagAnswer)

	res := e.Validate()
	assert.False(t, res.Valid)
	assert.Equal(t, MsgCorrectAnswerNotOption, res.Errors[key])

	e.Update(pid("a"), Patch{CorrectAnswer: strPtr("x")})
	assert.NotContains(t, e.Errors(), key)

	res = e.Validate()
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestEditor_ValidateMultipleChoiceRules(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{{ID: pid("a"), QuestionText: " ", Options: []string{"only"}}})

	res := e.Validate()
	require.False(t, res.Valid)
	assert.Equal(t, ValidationErrors{
		ErrorKey(pid("a"), TagQuestion): MsgQuestionRequired,
		ErrorKey(pid("a"), TagOptions):  MsgTwoOptionsRequired,
		ErrorKey(pid("a"), TagAnswer):   MsgCorrectAnswerRequired,
	}, res.Errors)
}

func TestEditor_ValidateShortAnswerRules(t *testing.T) {
	e := NewEditor(KindShortAnswer, seqIDs())
	e.Reset([]Question{
		{ID: pid("a"), QuestionText: "Q1", AcceptedAnswers: []string{}},
		{ID: pid("b"), QuestionText: "Q2", AcceptedAnswers: []string{"ok", "   "}},
		{ID: pid("c"), QuestionText: "Q3", AcceptedAnswers: []string{"fine"}},
	})

	res := e.Validate()
	require.False(t, res.Valid)
	assert.Equal(t, MsgAcceptedAnswerRequired, res.Errors[ErrorKey(pid("a"), TagAnswers)])
	assert.Equal(t, MsgAcceptedAnswerBlank, res.Errors[ErrorKey(pid("b"), TagAnswers)])
	assert.NotContains(t, res.Errors, ErrorKey(pid("c"), TagAnswers))
}

func TestEditor_ValidateReplacesErrorsWholesale(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	id := e.Items()[0].ID

	require.False(t, e.Validate().Valid)
	require.NotEmpty(t, e.Errors())

	e.Update(id, Patch{Options: []string{"a", "b"}})
	assert.NotContains(t, e.Errors(), ErrorKey(id, TagOptions))
	assert.Contains(t, e.Errors(), ErrorKey(id, TagQuestion))

	e.Update(id, Patch{QuestionText: strPtr("Q"), CorrectAnswer: strPtr("a")})
	assert.True(t, e.Validate().Valid)
	assert.Empty(t, e.Errors())
}

func TestEditor_MoveUpEditsOnlyRecordsWhoseOrderChanged(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{
		mcQuestion(pid("1"), "P1", []string{"a", "b"}, "a"),
		mcQuestion(pid("2"), "P2", []string{"a", "b"}, "a"),
		mcQuestion(pid("3"), "P3", []string{"a", "b"}, "a"),
	})

	require.True(t, e.MoveUp(1))

	items := e.Items()
	assert.Equal(t, []string{pid("2"), pid("1"), pid("3")}, []string{items[0].ID, items[1].ID, items[2].ID})
	assertDenseOrder(t, e)

	edited := e.Edited()
	require.Len(t, edited, 2)
	assert.Equal(t, pid("2"), edited[0].ID)
	assert.Equal(t, 1, edited[0].Order)
	assert.Equal(t, pid("1"), edited[1].ID)
	assert.Equal(t, 2, edited[1].Order)

	// moving back restores the baseline order
	require.True(t, e.MoveDown(0))
	assert.Empty(t, e.Edited())
}

func TestEditor_RemovePersistedTracksDeletedAndDropsEdit(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{
		mcQuestion(pid("a"), "Q1", []string{"a", "b"}, "a"),
		mcQuestion(pid("b"), "Q2", []string{"a", "b"}, "a"),
	})

	e.Update(pid("a"), Patch{QuestionText: strPtr("changed")})
	require.Len(t, e.Edited(), 1)

	require.True(t, e.Remove(pid("a")))
	assert.Equal(t, []DeletedQuestion{{ID: pid("a")}}, e.Deleted())
	// the survivor moved from order 2 to 1
	edited := e.Edited()
	require.Len(t, edited, 1)
	assert.Equal(t, pid("b"), edited[0].ID)
	assert.Equal(t, 1, edited[0].Order)
}

func TestEditor_RemoveLocalDropsNew(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{mcQuestion(pid("a"), "Q1", []string{"a", "b"}, "a")})

	id := e.Add("")
	require.Len(t, e.New(), 1)
	require.True(t, e.Remove(id))
	assert.Empty(t, e.New())
	assert.Empty(t, e.Deleted())
	assert.False(t, e.HasChanges())
}

func TestEditor_RemoveClearsValidationErrorsOfRecord(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	first := e.Items()[0].ID
	second := e.Add("")

	e.Validate()
	require.Contains(t, e.Errors(), ErrorKey(second, TagQuestion))

	e.Remove(second)
	for k := range e.Errors() {
		assert.False(t, strings.HasPrefix(k, second+"-"))
	}
	assert.Contains(t, e.Errors(), ErrorKey(first, TagQuestion))
}

func TestChangeSet_MarkDeletedIsIdempotent(t *testing.T) {
	cs := NewChangeSet()
	cs.markDeleted(pid("a"))
	cs.markDeleted(pid("a"))

	assert.Equal(t, []DeletedQuestion{{ID: pid("a")}}, cs.deleted)
}

func TestEditor_EditedExcludesDeletedIDs(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{
		mcQuestion(pid("a"), "Q1", []string{"a", "b"}, "a"),
		mcQuestion(pid("b"), "Q2", []string{"a", "b"}, "a"),
	})
	// a stale edited entry for a deleted id must never be reported
	e.changes.upsertEdited(e.items[1])
	e.changes.markDeleted(pid("b"))

	assert.Empty(t, e.Edited())
}

func TestEditor_ClearChangeSetsKeepsItemsAndBaseline(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{
		mcQuestion(pid("a"), "Q1", []string{"a", "b"}, "a"),
		mcQuestion(pid("b"), "Q2", []string{"a", "b"}, "a"),
	})
	e.Update(pid("a"), Patch{QuestionText: strPtr("edited")})
	e.Remove(pid("b"))

	e.ClearChangeSets()

	assert.Empty(t, e.Edited())
	assert.Empty(t, e.Deleted())
	require.Len(t, e.Items(), 1)
	assert.Equal(t, "edited", e.Items()[0].QuestionText)
	base, ok := e.Baseline(pid("a"))
	require.True(t, ok)
	assert.Equal(t, "Q1", base.QuestionText)
}

func TestEditor_OptionHelpers(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{mcQuestion(pid("a"), "Q", []string{"red", "blue"}, "blue")})
	id := pid("a")

	assert.False(t, e.RemoveOption(id, 0), "options floor is two")

	require.True(t, e.AddOption(id))
	assert.Equal(t, []string{"red", "blue", ""}, e.Items()[0].Options)

	require.True(t, e.UpdateOption(id, 2, "green"))
	assert.Equal(t, "blue", e.Items()[0].CorrectAnswer)

	require.True(t, e.UpdateOption(id, 1, "navy"))
	assert.Equal(t, "navy", e.Items()[0].CorrectAnswer, "correct answer follows its option")

	require.True(t, e.RemoveOption(id, 1))
	assert.Equal(t, []string{"red", "green"}, e.Items()[0].Options)
	assert.Equal(t, "", e.Items()[0].CorrectAnswer)

	assert.False(t, e.UpdateOption(id, 5, "x"))
	assert.False(t, e.AddAcceptedAnswer(id), "wrong kind")
	require.Len(t, e.Edited(), 1)
}

func TestEditor_UpdateOptionClearsCorrectAnswerWhenBlanked(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{mcQuestion(pid("a"), "Q", []string{"red", "blue"}, "red")})

	require.True(t, e.UpdateOption(pid("a"), 0, "  "))
	assert.Equal(t, "", e.Items()[0].CorrectAnswer)
}

func TestEditor_AcceptedAnswerHelpers(t *testing.T) {
	e := NewEditor(KindShortAnswer, seqIDs())
	e.Reset([]Question{{ID: pid("a"), QuestionText: "Q", AcceptedAnswers: []string{"Paris"}}})
	id := pid("a")

	assert.False(t, e.RemoveAcceptedAnswer(id, 0), "accepted answers floor is one")
	require.True(t, e.AddAcceptedAnswer(id))
	require.True(t, e.UpdateAcceptedAnswer(id, 1, "paris"))
	assert.Equal(t, []string{"Paris", "paris"}, e.Items()[0].AcceptedAnswers)
	require.Len(t, e.Edited(), 1)

	require.True(t, e.RemoveAcceptedAnswer(id, 1))
	assert.Empty(t, e.Edited(), "back to baseline")
	assert.False(t, e.AddOption(id), "wrong kind")
}

func TestEditor_SnapshotRestore(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	e.Reset([]Question{
		mcQuestion(pid("a"), "Q1", []string{"a", "b"}, "a"),
		mcQuestion(pid("b"), "Q2", []string{"a", "b"}, "a"),
		mcQuestion(pid("c"), "Q3", []string{"a", "b"}, "a"),
	})
	e.Update(pid("a"), Patch{QuestionText: strPtr("Q1*")})
	e.Remove(pid("b"))
	e.Add("")
	e.Validate()

	restored := RestoreEditor(e.Snapshot(), seqIDs())

	assert.Equal(t, e.Items(), restored.Items())
	assert.Equal(t, e.New(), restored.New())
	assert.Equal(t, e.Edited(), restored.Edited())
	assert.Equal(t, e.Deleted(), restored.Deleted())
	assert.Equal(t, e.Errors(), restored.Errors())

	// the baseline survives, so reverting still clears the edit
	restored.Update(pid("a"), Patch{QuestionText: strPtr("Q1")})
	for _, q := range restored.Edited() {
		assert.NotEqual(t, pid("a"), q.ID)
	}
}

func TestApply_UnknownOperation(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	_, err := Apply(e, Operation{Name: "explode"})
	assert.ErrorIs(t, err, ErrUnknownOperation)

	res, err := Apply(e, Operation{Name: OpAdd})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.NotEmpty(t, res.CreatedID)
}

func TestEditor_ValidateCountsOnlyStoredOptions(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	id := e.Items()[0].ID
	e.Update(id, Patch{QuestionText: strPtr("Q"), Options: []string{"a", " "}, CorrectAnswer: strPtr("a")})

	res := e.Validate()
	require.False(t, res.Valid, "a blank option is not stored, so one option remains")
	assert.Equal(t, MsgTwoOptionsRequired, res.Errors[ErrorKey(id, TagOptions)])

	e.Update(id, Patch{Options: []string{"a", "b", ""}})
	res = e.Validate()
	require.True(t, res.Valid)

	created := e.New()
	require.Len(t, created, 1)
	assert.Len(t, created[0].Options, 2, "what passed validation is what gets stored")
	assert.Equal(t, []string{"a", "b"}, created[0].Options)
}

func TestEditor_ResetRenumbersStoredOrders(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	a := mcQuestion(pid("a"), "Q1", []string{"a", "b"}, "a")
	a.Order = 5
	b := mcQuestion(pid("b"), "Q2", []string{"a", "b"}, "a")
	b.Order = 9
	e.Reset([]Question{a, b})

	assertDenseOrder(t, e)
	assert.Empty(t, e.Edited())
	assert.True(t, e.PositionStale(pid("a")))
	assert.Len(t, e.Repositioned(), 2)
	assert.True(t, e.HasChanges(), "stale positions are written on save")

	e.Add("")
	assertDenseOrder(t, e)
	assert.Empty(t, e.Edited(), "adding does not edit the stored questions")

	// repositions survive a snapshot round trip
	restored := RestoreEditor(e.Snapshot())
	assert.Len(t, restored.Repositioned(), 2)

	// an edited record reports through Edited only
	e.Update(pid("a"), Patch{QuestionText: strPtr("Q1 again")})
	require.Len(t, e.Edited(), 1)
	require.Len(t, e.Repositioned(), 1)
	assert.Equal(t, pid("b"), e.Repositioned()[0].ID)

	e.Remove(pid("b"))
	assert.Empty(t, e.Repositioned())
	assert.False(t, e.PositionStale(pid("b")))
}

func TestEditor_ResetWithDenseOrdersHasNoRepositions(t *testing.T) {
	e := NewEditor(KindMultipleChoice, seqIDs())
	a := mcQuestion(pid("a"), "Q1", []string{"a", "b"}, "a")
	a.Order = 1
	e.Reset([]Question{a, mcQuestion(pid("b"), "Q2", []string{"a", "b"}, "a")})

	assert.Empty(t, e.Repositioned())
	assert.False(t, e.HasChanges())
}
