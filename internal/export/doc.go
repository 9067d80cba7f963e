// Package export implements the streaming record-transfer engine.
//
// # Overview
//
// The engine iterates a source bag one record at a time and either flattens
// payloads into CSV rows (export mode) or appends records verbatim to a
// destination bag (transfer mode). Memory is O(1) in record count: one record
// and one cached field-path list are live at any time.
//
// Export mode discovers the channel's schema from the first observed record,
// opens the sink lazily with the discovered column list (a synthetic
// _ros_time_sec column first), and applies that exact column list to every
// subsequent record. A later record missing a cached field path aborts the
// export; an empty matching stream never opens the sink at all.
//
// Transfer mode preserves record order and timestamps exactly, restricted by
// an explicit channel inclusion list. Complement builds that list for remove
// mode from the source's channel index.
package export
