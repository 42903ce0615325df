// Package offload decides where a layout is computed.
//
// Layouts of large graphs can take long enough to stall an interactive
// caller, so computation can be moved off the caller's execution path:
//
//   - [InProcess] runs the engine synchronously on the calling goroutine
//   - [Goroutine] runs it on a separate goroutine and honours cancellation
//   - [Process] runs it in a separate worker process ("arrange worker")
//     speaking JSON over stdin and stdout
//
// [Fallback] wraps an isolated executor: when the isolated context fails
// for any reason other than a layout error or caller cancellation, it logs
// a warning and recomputes in-process. Because every job carries its seed,
// the fallback result is identical to what the isolated context would have
// returned.
//
// # Worker Protocol
//
// The worker reads one [Job] from stdin and writes one [Response] to
// stdout. Layout errors are reported inside the response with exit status
// 0; a non-zero exit means the worker itself failed and its stderr is
// included in the returned error.
package offload
