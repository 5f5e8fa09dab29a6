package committer

import "cloud.google.com/go/spanner"

// Category classifies a mutation for reporting.
type Category int

const (
	CategoryOther Category = iota
	CategoryInsert
	CategoryUpdate
	CategoryDelete
	CategoryOutbox
)

// Summary counts the mutations of a plan per category.
type Summary struct {
	Inserts int
	Updates int
	Deletes int
	Outbox  int
	Other   int
}

// Total is the number of mutations the summary covers.
func (s Summary) Total() int {
	return s.Inserts + s.Updates + s.Deletes + s.Outbox + s.Other
}

// Plan collects mutations that must be applied in one transaction.
type Plan struct {
	mutations []*spanner.Mutation
	summary   Summary
}

func NewPlan() *Plan {
	return &Plan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add appends an uncategorized mutation. Nil mutations are ignored.
func (p *Plan) Add(m *spanner.Mutation) {
	p.AddAs(CategoryOther, m)
}

// AddAs appends m and counts it under c. Nil mutations are ignored.
func (p *Plan) AddAs(c Category, m *spanner.Mutation) {
	if m == nil {
		return
	}
	p.mutations = append(p.mutations, m)
	switch c {
	case CategoryInsert:
		p.summary.Inserts++
	case CategoryUpdate:
		p.summary.Updates++
	case CategoryDelete:
		p.summary.Deletes++
	case CategoryOutbox:
		p.summary.Outbox++
	default:
		p.summary.Other++
	}
}

func (p *Plan) IsEmpty() bool {
	return len(p.mutations) == 0
}

func (p *Plan) Mutations() []*spanner.Mutation {
	return p.mutations
}

func (p *Plan) Summary() Summary {
	return p.summary
}
