// Package dataprocessing implements the cleaning pipeline that turns
// heterogeneous spreadsheet exports into canonical tables.
//
// The pipeline has three layers:
//
//  1. Column handling: NormalizeColumn canonicalizes raw column labels and
//     ApplyAliases renames dataset-specific synonyms to the fixed schema names.
//  2. Cell coercion: ParseNumber resolves locale-ambiguous numeric text,
//     CoerceDate parses dates permissively, and CleanText collapses whitespace.
//     Unparseable cells become missing (nil), never errors.
//  3. Dataset cleaners: CleanLines, CleanDisbursements, CleanCompliance and
//     CleanContacts orchestrate the above per dataset kind and compute the
//     derived fields (monto_utilizado, uso_pct).
//
// Every transform is a pure function over an in-memory Table: no I/O, no
// shared state, and the four cleaners are safe to run concurrently.
package dataprocessing
