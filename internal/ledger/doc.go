// Package ledger is a reporting sink that keeps every record of a run in a
// local SQLite database. Attached files, typically browser logs that are
// overwritten by the next run, are copied next to the database so the
// ledger stays readable after the run.
package ledger
