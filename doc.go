/*
Package viewmig migrates Odoo addons across major versions, rewriting view
modifiers that newer versions no longer accept.

Odoo 17 dropped the attrs and states view attributes in favour of plain
Python expressions on invisible, required, readonly and column_invisible.
viewmig converts the domains held in attrs into those expressions, folds
states lists into invisible and updates inheriting views, while keeping the
rest of each file byte for byte.

# Usage

Conversions are pure functions:

	expr, err := viewmig.ConvertDomain("['|', ('state', '=', 'draft'), ('locked', '=', False)]")
	// expr == "state == 'draft' or not locked"

A whole addons tree is migrated with a Migrator:

	m := viewmig.New("./custom_addons", viewmig.WithDryRun(true))
	report, err := m.Migrate(ctx, 16)
	if err != nil {
		// report lists the files that failed
	}

The viewmig command wraps the same API with backups, confirmation prompts,
persisted reports and HTTP and MCP servers.
*/
package viewmig
