/*
Package types defines the records shared across shopdemo.

# Overview

The types package provides shared type definitions for:
  - Catalog items (Product) and person records (User, Address)
  - Task records (Todo), exposed by the gateway only
  - Paged responses of the origin (ProductPage, UserPage, TodoPage)
  - Source mode and gender enums

# Source Mode

SourceMode selects which provider populates a collection:

	SourceLocal   built-in sample set, never touches the network
	SourceRemote  page fetched through the gateway

ParseSourceMode accepts "local", "remote" and the alias "api".

# JSON Shape

Field names and JSON tags follow the external origin so pages decode directly:

	var page types.ProductPage
	err := json.Unmarshal(body, &page)

The same tags are mirrored for YAML so command output can be rendered in either format.
*/
package types
