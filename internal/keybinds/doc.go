/*
Package keybinds maps key presses to interactive view actions.

# Contexts

Every panel has its own context (products, users, status) and falls back
to the global context for shared keys such as tab, q and y. The input and
form contexts do not fall back: while a search term or a form field is
being typed, letters are text, and only ctrl+c still quits.

# Customization

A keybinds.json file in the config directory overrides the defaults per
context. Comments are allowed. An empty action unbinds the key:

	{
	  "version": "1.0",
	  "products": { "c": "toggle_cart", " ": "" },
	  "status": { "p": "probe" }
	}

Validator reports unknown actions as errors, and reserved or shadowed keys
as warnings.
*/
package keybinds
