// Package errors defines the error taxonomy shared across rtsettings.
//
// Every failure this module surfaces carries one of a small, closed
// set of sentinel kinds — file read failure, parse failure, remote
// request/response failure, the four secret-resolution failures,
// secret-store failure, invalid regex, invalid version clause, timeout,
// and invalid input — plus a
// three-way classification (Transient / Invalid / Fatal) that callers
// use to decide whether to retry, log and continue, or abort.
//
//	if err := provider.Load(ctx, version); err != nil {
//	    if errors.IsTransient(err) {
//	        // schedule a retry
//	    }
//	    logger.Warn("provider load failed", "provider", provider.Name(), "error", err)
//	}
//
// Internal call sites wrap with WrapTransient/WrapInvalid/WrapFatal so
// classification survives fmt.Errorf's %w chains and errors.Is/As.
package errors
