// Package mimo is the Composition Root for the MU (Memory Unit) engine.
//
// An MU is an atomic, content-addressable knowledge record: a snippet of
// text (or a caption of a media asset) plus provenance pointers back to the
// raw source it was cut from. This module is the record engine — the logic
// that guarantees two independently generated MUs with identical semantic
// content produce identical identifiers, that every record conforms to one
// of a small number of versioned schemas, and that a pointer embedded in a
// record can be deterministically resolved back to a line range of a named
// source artifact.
//
// Philosophy:
//
// Records are immutable. An MU is created once, by the pack pipeline or by
// reading it from storage, and is never mutated in place: corrections are
// new records linked via links.corrects / links.supersedes, and retraction
// is a tombstone, not a deletion. Identity is content: content_hash and
// mu_key are pure functions of canonicalized content, so recomputing from
// identical inputs always yields the identical hash.
//
// Features:
//
//   - **Canonical hashing**: sorted-key compact JSON + sha256, behind
//     content_hash (semantic identity) and mu_key (dedup key).
//   - **Versioned validation**: v1.0 and v1.1 required-field sets, a JSON
//     Schema contract for v1.1, and errors-as-data diagnostics.
//   - **Locator resolution**: line_range pointers resolve back to the
//     exact source slice; vault:// and http(s) are delegated elsewhere.
//   - **Pack/extract**: line-window chunking with run-scoped dedup, and
//     group/order reassembly of original artifacts.
//   - **Watch mode**: continuous revalidation of changed record files.
//
// Usage:
//
//	svc, err := mimo.New(
//		mimo.WithStrict(false),
//		mimo.WithLogger(logger),
//	)
//
//	report, err := svc.Validate(ctx, "./records")
//	fmt.Println(report.Summary())
package mimo
