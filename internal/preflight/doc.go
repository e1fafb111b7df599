// Package preflight verifies the runtime environment before media work
// starts: the external binaries the pipelines shell out to, directory
// permissions, free disk space for scratch output, and backend
// reachability.
package preflight
