/*
Package view rewrites attrs and states modifiers inside Odoo XML views.

Four kinds of nodes are converted, in this order:

  - elements carrying an attrs attribute get one attribute per modifier;
  - <attribute name="attrs"> overrides become one override per modifier;
  - elements carrying a states attribute get it folded into invisible;
  - <attribute name="states"> overrides get folded into the invisible override.

The document is edited in place with etree so that comments, CDATA sections,
attribute order and indentation survive. Places where the result must be
checked by hand receive a TODO comment.
*/
package view
