/*
Package domain contains the core models shared by the view migration engine.

It defines what a domain expression looks like once parsed (operators and leaves),
the attribute names that replace the legacy "attrs" dictionary, the migration
report persisted after every run, and the lifecycle hooks fired while files are
rewritten. The package has no dependencies on I/O or parsing.

# Key Entities

  - Term: one element of a prefix-notation domain, either an Operator or a Leaf.
  - Domain: an ordered list of terms, possibly relying on implicit conjunction.
  - Report: the outcome of a migration run, step by step and file by file.
  - Hooks: optional callbacks observing file and conversion events.
*/
package domain
