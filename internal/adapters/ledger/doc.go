// Package ledger stores reader state that must survive between requests:
// point balances, unlocked (date, sign) pairs, and cached language model
// output. Redis backs it in production; the in-process variant is for local
// runs and tests.
//
// Redis key layout, with prefix from redis.key_prefix:
//
//	{prefix}:points:{user}               balance (integer)
//	{prefix}:unlock:{user}:{date}_{sign} unlock marker, expires after redis.unlock_ttl
//	{prefix}:cache:{key}                 cached JSON
package ledger
