// Package parser reads actdiag source text into a syntax tree.
//
// # Language
//
// A source file holds one diagram block:
//
//	actdiag {
//	  write -> convert -> image
//
//	  lane user {
//	    label = "User"
//	    write [label = "Writing reST"];
//	    image [label = "Get diagram IMAGE"];
//	  }
//	  lane actdiag {
//	    convert [label = "Convert reST to Image"];
//	  }
//	}
//
// Statements are separated by optional semicolons. The statement kinds are
// diagram attributes (key = value), node statements (id [attrs]), edge
// chains (a -> b -> c [attrs]) and lanes (lane id { ... }). The edge
// operators are ->, <-, <-> and --. Comments start with //, # or are
// enclosed in /* */.
//
// The parser only checks syntax. Attribute names and values are validated
// by the diagram builder.
package parser
