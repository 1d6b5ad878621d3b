/*
Package literal parses and prints the Python literal subset found in Odoo
sources: attrs dictionaries, domains and module manifests.

Parse accepts strings, numbers, True, False, None, lists, tuples and
dictionaries. ParseWithRefs additionally accepts dynamic references (bare
field names and %(xmlid)d placeholders) in value position; they are kept as
Ref values and printed unquoted.

Repr prints a value the way Python's repr would. Format pretty-prints a
dictionary over several lines, keeping insertion order.
*/
package literal
