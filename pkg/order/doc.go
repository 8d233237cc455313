// Package order maps category labels onto a total order.
//
// Garment sizes and similar labels have no useful lexical order: "XL" sorts
// before "M" as a string, and "10XL" before "2XL". An [Order] fixes the order
// with an explicit reference list and resolves any label to an integer rank
// that can be compared directly.
//
// # Resolution
//
// Labels are normalized with [Normalize] (NFKC, trim, uppercase) and then
// resolved in three steps:
//
//  1. An exact match against the reference list yields the entry's index.
//  2. A label built on the oversized baseline (by default "XL") resolves by
//     counting its size markers: "XXL" carries one extra "X" and ranks at
//     index("XL")+1, "12XL" carries a multiplier of 12 and ranks at
//     index("XL")+12. Tiers larger than anything listed still sort above the
//     listed ones, ordered by marker count.
//  3. Anything else resolves to the sentinel [Order.Unknown], which equals the
//     length of the reference list. Unknown labels are never an error.
//
// [Order.Resolve] additionally reports whether a label was recognized, so
// callers can place unknown labels after every recognized one even when an
// oversized rank exceeds the sentinel.
//
// # Usage
//
//	o := order.Default()
//	o.Rank("m")    // 8
//	o.Rank("XXL")  // 11, same as "2XL"
//	o.Rank("12XL") // 22
//	o.Rank("one size") // 20, the sentinel
//
// An [Order] is immutable after construction and safe for concurrent use.
package order
