/*
Package transpile converts legacy Odoo view modifiers into the boolean
expressions used from version 17 on.

A domain such as ['|', ('a', '=', 1), ('b', '!=', False)] becomes the
Python expression "a == 1 or b". The conversion runs in three stages:

  - NormalizeDomain makes implicit conjunctions explicit.
  - StringifyLeaf renders a single comparison.
  - StringifyAttr folds a normalized domain into one expression.

GetNewAttrs applies the conversion to every entry of an attrs dictionary and
CombineInvisible folds a legacy states list into an invisible expression.
All functions are pure and safe for concurrent use.
*/
package transpile
