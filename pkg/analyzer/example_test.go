package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/querylimit/query-rate-limiter/pkg/store"
)

func ExampleAnalyzer() {
	st := store.NewMemoryStore()
	a, err := New(st, Limits{
		"expensiveField": {Threshold: 1, Interval: 15 * time.Second},
	})
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	node := Node{OwnerTypeName: "Query", Kind: KindField, DeclaredName: "expensiveField"}

	for i := 0; i < 2; i++ {
		memo, err := a.Initial(Request{ClientIdentity: "99.99.99.99"})
		if err != nil {
			panic(err)
		}
		if err := a.OnVisit(ctx, memo, PhaseEnter, node); err != nil {
			panic(err)
		}
		fmt.Println(a.Final(ctx, memo))
	}
	// Output:
	// <nil>
	// Query rate limit exceeded on expensiveField
}
