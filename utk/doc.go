// Package utk drives the sampler and discrepancy executables of a UTK build.
//
// # Reading Guide
//
//   - config.go: the Toolkit, its Config and the process-wide default instance
//   - runner.go: how child processes are spawned (Runner, ExecRunner)
//   - sampler.go / discrepancy.go: the façades that build argument vectors,
//     run one executable and read its output back
//
// # Layout of a UTK build
//
// A UTK build directory holds two sub-directories:
//   - samplers/: executables named <name>_<dim>d<variant>
//   - discrepancy/: executables named <name>_fromfile_<dim>d<variant>
//
// The file formats live in sub-packages:
//   - utk/pointset: binary and text point files
//   - utk/results: discrepancy result tables
//   - utk/discovery: executable naming convention and directory scans
//
// Every call is synchronous: the façade writes its inputs to the working
// directory, waits for the child process, parses the file it produced and
// optionally removes the temporary files.
package utk
