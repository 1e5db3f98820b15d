// Package model defines the metadata entities that make up a study's
// define document: datasets, variables, value-level metadata, where
// clauses, controlled terminology, methods, comments, documents,
// standards and analysis results.
//
// Entities never hold pointers to each other. Every cross-reference is a
// stored OID or natural key that is resolved through the graph package,
// so entities can be copied, merged and compared as plain values.
package model
