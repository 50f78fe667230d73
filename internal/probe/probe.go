package probe

import "os/exec"

// Prober resolves an executable name to a runnable path. It is the single
// platform primitive the cache depends on; the default implementation is
// exec.LookPath, which walks the PATH entries and honours the platform's
// executable-extension conventions (PATHEXT on Windows).
//
// A Prober signals "not runnable" by returning an error. The cache never
// distinguishes between kinds of probe errors: not-found, a permission
// failure while scanning a PATH directory, and any other resolution problem
// all fold into "unavailable".
type Prober func(name string) (string, error)

// LookPath is the default Prober backed by the host PATH.
func LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
