// Package filters compiles a raw filter map — the targeting rules attached
// to an entry by a provider — into two vectors of pre-bound predicate
// objects: one evaluated once at load time against the process's static
// identity, and one evaluated on every lookup against the current per-call
// context.
//
// Tier assignment is decided purely by filter name: application, server,
// environment, mcs_run_env, and library_version are load-time; url-path,
// host, email, ip, header, context, and probability are per-call. Unknown
// names are dropped rather than rejected, so a process running an older
// build of this package tolerates filter names introduced by a newer
// remote configuration.
package filters
