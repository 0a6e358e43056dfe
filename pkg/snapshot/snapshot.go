// Package snapshot requests raw data snapshots from the host debugger.
//
// The host is a collaborator: it receives a file path and a selector and
// either writes the referenced bytes to the file or fails with a
// descriptive error. The rest of snapdump never reads debuggee memory
// itself.
package snapshot

// Service writes raw binary snapshots of in-process data to files.
type Service interface {
	// DumpValue evaluates expr in the debuggee and writes the raw bytes of
	// its value to path.
	DumpValue(path, expr string) error
	// DumpMemory writes the debuggee memory range [start, end) to path.
	DumpMemory(path, start, end string) error
}
