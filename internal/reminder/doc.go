// Package reminder implements the scheduling core of the bot: deriving due
// times from a parsed event time, persisting reminder records, arming one
// timer per pending reminder, and re-arming everything still in the future
// after a restart.
package reminder
