/*
Package template derives the input ports of a template node from its text.

A placeholder is two opening braces, an identifier and two closing braces,
with optional whitespace inside the braces:

	Hello {{ name }}, your order {{order_id}} has shipped.

yields the ports "name" and "order_id". Anything that does not match the
grammar is literal text. The node's size is a pure function of the same text,
so both are recomputed together on every edit.
*/
package template
