// Package lexicon defines the task lexicon model and the providers that
// serve it.
//
// A lexicon is an ordered list of entries, each pairing a task with its
// trigger phrases. Providers implement the Provider interface and differ
// only in where the lexicon lives:
//
//   - Simulated: fixed in-process table with pluggable failure injection,
//     the development and test default
//   - HTTP: remote lexicon service speaking JSON
//   - RedisProvider: lexicon curated in a shared Redis instance
//
// # Basic Usage
//
//	provider := lexicon.NewSimulated(lexicon.SimulatedConfig{
//		Failures: lexicon.FailureRate(0.3),
//		Latency:  50 * time.Millisecond,
//	})
//
//	entries, err := provider.GetLexicon(ctx, "pls chek order asap")
//	if err != nil {
//		// classified; decide with the taxonomy
//		if lexicon.IsTransient(lexicon.ClassOf(err)) {
//			// worth retrying
//		}
//	}
//
// # Error Taxonomy
//
// Provider failures carry an ErrorClass so the retry layer can decide
// without string matching:
//
//   - network, timeout, upstream: transient, retried
//   - client, unknown: permanent, fail fast
//
// Providers wrap causes in *ProviderError; ClassOf walks wrapped chains.
//
// # Failure Injection
//
// The simulated provider misbehaves on demand, which is how resilience
// behavior is tested end to end:
//
//	lexicon.NewSimulated(lexicon.SimulatedConfig{
//		Failures: lexicon.FailN(2, lexicon.ErrorClassNetwork),
//	})
//
// fails exactly two calls and then recovers.
package lexicon
