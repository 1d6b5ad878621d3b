// Package migrate runs the code migration steps of an Odoo version upgrade
// over an addons tree.
//
// A Runner walks the files each step targets, asks its Confirmer before
// every write and records the outcome of each file in a domain.Report.
// A failing file never aborts the batch: failures are reported and
// collected into a multierror returned next to the report.
package migrate
