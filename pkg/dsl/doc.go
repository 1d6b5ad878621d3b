/*
Package dsl provides a fluent builder for domains.

It lets Go code and tests write domains as nested calls instead of prefix
lists, with n-ary And and Or expanded into the binary prefix form Odoo uses.

Example usage:

	d := dsl.Build(
		dsl.Or(dsl.Eq("state", "draft"), dsl.Not(dsl.Eq("locked", true))),
		dsl.In("type", "out_invoice", "out_refund"),
	)
	// ['&', '|', ('state', '=', 'draft'), '!', ('locked', '=', True), ('type', 'in', [...])]

	expr, err := transpile.StringifyAttr(d)
*/
package dsl
