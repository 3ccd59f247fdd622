// Package context carries per-request state through the application services.
//
// A RequestContext memoises lookups made while serving one request, so the
// fortune and reading paths ask the profile store at most once per reader:
//
//	rc := context.Ensure(ctx)
//	paid, err := context.Get(rc, profileFlag{store: s.profiles, userID: id})
//
// It also stages writes that must succeed together. Commit runs them in
// order and rolls back the ones already done when a later one fails:
//
//	rc.AddAction(debit)
//	rc.AddAction(markUnlocked)
//
//	if err := rc.Commit(ctx); err != nil {
//	    // debit has been refunded
//	}
package context
