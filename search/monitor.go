package search

import "github.com/poiesic/docfind/core"

// SearchMonitor receives callbacks at each stage of a hybrid search. It is
// intended for diagnostics and evaluation; implementations must not mutate
// the values they receive.
type SearchMonitor interface {
	Start(query string)
	AfterKeywordSearch(results []*core.RankedResult)
	AfterVectorSearch(results []*core.RankedResult)
	AfterFusion(results []*core.FusedResult)
	Finish(docs []*core.Document)
}

type noopMonitor struct{}

func (noopMonitor) Start(string)                            {}
func (noopMonitor) AfterKeywordSearch([]*core.RankedResult) {}
func (noopMonitor) AfterVectorSearch([]*core.RankedResult)  {}
func (noopMonitor) AfterFusion([]*core.FusedResult)         {}
func (noopMonitor) Finish([]*core.Document)                 {}
