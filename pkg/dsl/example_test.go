package dsl_test

import (
	"fmt"
	"log"

	"github.com/aretw0/viewmig/pkg/dsl"
	"github.com/aretw0/viewmig/pkg/transpile"
)

func ExampleBuild() {
	d := dsl.Build(
		dsl.Or(dsl.Eq("state", "draft"), dsl.Not(dsl.Eq("locked", true))),
		dsl.In("move_type", "out_invoice", "out_refund"),
	)
	fmt.Println(len(d), "terms")

	expr, err := transpile.StringifyAttr(d)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(expr)
	// Output:
	// 5 terms
	// (state == 'draft' or (not (locked))) and move_type in ['out_invoice', 'out_refund']
}
