// Package gotcat resolves gettext message ids into localized strings, backed
// by .po catalogs and a layered cache.
//
// Catalogs are parsed once and written to a cache backend under bounded keys.
// A freshness record per locale and domain lets many processes share one
// backend without re-parsing, and a compiled snapshot directory avoids parsing
// on cold starts. Entries evicted from a shared cache are restored on demand.
//
// Basic usage:
//
//	import (
//	    "github.com/ZaguanLabs/gotcat"
//	    "github.com/ZaguanLabs/gotcat/cache"
//	)
//
//	func main() {
//	    t := gotcat.NewTranslator(
//	        gotcat.WithCache(cache.NewInMemoryCache(0)),
//	    )
//
//	    if err := t.BindDomain("dom1", "./i18n/dom1"); err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := t.SetLanguage("es", ""); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println(t.Translate("Yes", "dom1", "")) // Si
//	}
package gotcat
