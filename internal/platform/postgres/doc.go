// Package postgres implements the store interfaces on top of PostgreSQL.
// Every query is parameterized from typed predicates; no query text is ever
// assembled by interpolating values.
package postgres
