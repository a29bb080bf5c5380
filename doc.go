// Package xmlconfig provides a small, opinionated store for schema-validated
// XML configuration documents.
//
// It supports:
//  1. Loading an XML document from a file and validating it against an XSD
//     schema before it becomes visible to queries.
//  2. Falling back to a configured default document when loading or
//     validation fails, so the store never exposes an invalid document.
//  3. Querying the installed document with XPath expressions and converting
//     matched subtrees into nested Object/Array/String values.
//  4. Memoizing query results per expression until the next successful
//     install.
//
// Typical usage:
//
//	store := xmlconfig.New(
//	    xmlconfig.WithSchema("settings.xsd"),
//	    xmlconfig.WithDefaultDocument("defaults.xml"),
//	)
//	store.Load("settings.xml")
//	if store.Document() == nil {
//	    // no valid configuration could be installed
//	}
//	host := store.Get("/settings/database/host")
//	features := store.GetAll("/settings/feature")
//	_ = host
//	_ = features
//
// Loading and querying are not synchronized; callers that share a Store
// across goroutines must serialize Load and SetDocument relative to Get.
package xmlconfig
