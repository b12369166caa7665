// Package printing contains the receipt printing bounded context:
// paper sizes and margins for thermal receipts, print jobs that track PDF
// renderings of a bill, and the number-to-words conversion printed under the
// receipt total.
package printing
