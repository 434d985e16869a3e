// Package core provides the business logic for cleaning crawler exports.
//
// This package holds all domain logic independent of any UI or transport
// layer. The web server and the command-line tool both drive it through
// [Service] without modification.
//
// # Architecture
//
//   - Retailer Definitions: registered via the registry, each retailer has a
//     canonical output schema and a normalizer.
//   - Extractors: total functions that pull typed values out of scraped text.
//   - Detector: checks a table's product URLs against the selected retailer.
//   - Service: the entry point for validate and clean runs.
//
// # Retailer Registry
//
// Retailers are registered at init time using [Register]. Each
// [RetailerDefinition] contains everything needed to clean one export:
//
//	core.Register(core.RetailerDefinition{
//	    Info:      core.RetailerInfo{Retailer: core.Walmart, URLColumn: "w-100 href"},
//	    Schema:    walmartSchema(),
//	    Normalize: normalizeWalmart,
//	})
//
// # Absent Values
//
// Normalized cells use pgtype scalars. Valid=false marks a value the export
// did not carry or an extractor could not read; it is never an error.
//
// # Clean Flow
//
//  1. Client calls [Service.Clean] with a [RawTable] and the selected retailer
//  2. The run waits for a slot from the [RunLimiter]
//  3. The [Detector] samples product URLs and rejects mismatched files
//  4. The normalizer runs on a private copy with one [Capture] timestamp
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - VAL004, VAL010: missing columns and retailer mismatches
//   - TBL002: unknown retailer
//   - FILE001-FILE006: file errors (size, encoding, format)
//   - UPL002-UPL005: run errors (busy, cancelled, timeout)
package core
